package enums

const (
	ConnectionName     = "foodgram"
	QueueCatalogImport = "catalog-import"
	SystemOperate      = "system"
	FinishedStatus     = "finished"
	FailedStatus       = "failed"
	QueueStatus        = "queue"
	OutcomeDone        = "done"
	OutcomeFailed      = "failed"
	OutcomeMismatch    = "mismatch"
	OutcomeMalformed   = "malformed"
)
