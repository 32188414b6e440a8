package errcode

type Code string

const (
	CatalogUnavailable Code = "CATALOG_UNAVAILABLE"
	DataUnavailable    Code = "DATA_UNAVAILABLE"

	BadRequest Code = "BAD_REQUEST"
	Internal   Code = "INTERNAL_ERROR"
)
