// SPDX-License-Identifier: ISC

package approval

import (
	"sort"

	"github.com/av1ctor/icrc7-launchpad/account"
	"github.com/av1ctor/icrc7-launchpad/token"
)

type idSorter []token.ID

func (ids idSorter) sort() {
	sort.Slice(ids, func(i, j int) bool {
		a := ids[i]
		b := ids[j]
		return a.Cmp(&b) < 0
	})
}

func sortKeys(keys []account.Key) {
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
}
