package prettyprint

var (
	// ContextKeyPreviewDraws is the key to retrieve the number of
	// upcoming draws a generator should preview when pretty printed.
	ContextKeyPreviewDraws = contextKey("random/preview-draws")
)

type contextKey string
