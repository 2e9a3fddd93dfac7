// SPDX-License-Identifier: ISC

package blockdigest_test

import (
	"encoding/json"
	"testing"

	"github.com/av1ctor/icrc7-launchpad/blockdigest"
)

// SHA3-256 of "abc" is a published test vector
func TestDigest(t *testing.T) {
	d := blockdigest.NewDigest([]byte("abc"))

	expected := "3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532"
	actual := d.String()
	if expected != actual {
		t.Fatalf("digest: %s  expected: %s", actual, expected)
	}

	if d.IsEmpty() {
		t.Fatalf("digest of data unexpectedly empty")
	}
	if !blockdigest.Empty.IsEmpty() {
		t.Fatalf("zero digest not detected as empty")
	}
}

func TestDigestJSONRoundTrip(t *testing.T) {
	d := blockdigest.NewDigest([]byte("some block bytes"))

	buffer, err := json.Marshal(d)
	if nil != err {
		t.Fatalf("marshal error: %s", err)
	}

	var restored blockdigest.Digest
	err = json.Unmarshal(buffer, &restored)
	if nil != err {
		t.Fatalf("unmarshal error: %s", err)
	}
	if restored != d {
		t.Fatalf("round trip mismatch: %#v  expected: %#v", restored, d)
	}
}

func TestDigestFromBytes(t *testing.T) {
	d := blockdigest.NewDigest([]byte("x"))

	var restored blockdigest.Digest
	err := blockdigest.DigestFromBytes(&restored, d[:])
	if nil != err {
		t.Fatalf("from bytes error: %s", err)
	}
	if restored != d {
		t.Fatalf("from bytes mismatch: %#v  expected: %#v", restored, d)
	}

	err = blockdigest.DigestFromBytes(&restored, d[:16])
	if nil == err {
		t.Fatalf("short buffer unexpectedly accepted")
	}
}
