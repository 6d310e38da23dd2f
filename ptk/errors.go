package ptk

import "errors"

// Errors
var (
	ErrBadParams        = errors.New("bad kernel params")
	ErrBadRange         = errors.New("bad range expression")
	ErrBadCatalogParam  = errors.New("bad catalog param")
	ErrCatalogVersion   = errors.New("catalog version is incompatible")
	ErrParamsMismatch   = errors.New("catalog was created with different params")
	ErrReadOnly         = errors.New("catalog is in read-only mode")
	ErrCatalogClosed    = errors.New("catalog is closed")
	ErrDocumentNotFound = errors.New("document not found")
	ErrUnmarshal        = errors.New("unmarshal failed")
)
