package contract

import "errors"

var (
	ErrCatalogLoad  = errors.New("catalog load failed")
	ErrOracleInvoke = errors.New("oracle invoke failed")
	ErrRecordParse  = errors.New("extraction output parse failed")
	ErrValidation   = errors.New("validation failed")
)
