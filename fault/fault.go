// SPDX-License-Identifier: ISC

// error instances
//
// Provides a single instance of errors to allow easy comparison
// without having to resort to partial string matches
package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError

// common errors - keep in alphabetic order
var (
	ErrApprovalExpired         = InvalidError("approval is expired")
	ErrArchiveStoreClosed      = ProcessError("archive store is closed")
	ErrBatchTooLarge           = LengthError("batch exceeds maximum update batch size")
	ErrCannotDecodeAccount     = InvalidError("cannot decode account")
	ErrCannotDecodeDigest      = InvalidError("cannot decode digest")
	ErrCannotDecodeRecord      = InvalidError("cannot decode record")
	ErrChecksumMismatch        = InvalidError("checksum mismatch")
	ErrCorruptSnapshot         = ProcessError("corrupt state snapshot")
	ErrCreatedInFuture         = InvalidError("created time is too far in the future")
	ErrExpiresInPast           = InvalidError("expiration time is in the past")
	ErrInvalidRecipient        = InvalidError("recipient is invalid")
	ErrMemoTooLarge            = LengthError("memo exceeds maximum memo size")
	ErrMissingTokenID          = InvalidError("token id is missing")
	ErrNotAuthorised           = InvalidError("caller is not authorised")
	ErrNotMintingAuthority     = InvalidError("caller is not the minting authority")
	ErrNotOwner                = InvalidError("caller is not the owner")
	ErrSupplyCapExceeded       = InvalidError("supply cap exceeded")
	ErrTokenExists             = ExistsError("token id already exists")
	ErrTokenNotFound           = NotFoundError("token id not found")
	ErrTokenRetired            = ExistsError("token id was burned and is retired")
	ErrTooManyApprovals        = LengthError("too many approvals")
	ErrTooOld                  = InvalidError("created time is too old")
	ErrTransactionRangeNotLive = NotFoundError("transaction range is no longer live")
)

// Error - the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e LengthError) Error() string   { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool   { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool  { _, ok := e.(InvalidError); return ok }
func IsErrLength(e error) bool   { _, ok := e.(LengthError); return ok }
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool  { _, ok := e.(ProcessError); return ok }
