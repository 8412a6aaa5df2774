package model

import "github.com/m-mizutani/goerr/v2"

// Error tags for domain operations
var (
	ErrTagFileAccess   = goerr.NewTag("file_access")
	ErrTagInvalidCSV   = goerr.NewTag("invalid_csv")
	ErrTagDatasetLoad  = goerr.NewTag("dataset_load")
	ErrTagInvalidTheme = goerr.NewTag("invalid_theme")
)

// Sentinel errors for domain operations
var (
	ErrDatasetNotReady = goerr.New("dataset is not ready")
)
