package domain

// Index describe un índice soportado por la aplicación. El motor trata los
// símbolos como identificadores opacos; el catálogo es solo para la UI.
type Index struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// supportedIndices es el catálogo estático de índices que expone la API.
// Los símbolos son los del chart API de Yahoo Finance.
var supportedIndices = []Index{
	{Symbol: "^GSPC", Name: "S&P 500", Description: "500 large-cap US companies"},
	{Symbol: "^NDX", Name: "NASDAQ 100", Description: "Top 100 non-financial NASDAQ companies"},
	{Symbol: "^DJI", Name: "Dow Jones Industrial Average", Description: "30 blue-chip US companies"},
	{Symbol: "^IXIC", Name: "NASDAQ Composite", Description: "All NASDAQ-listed companies"},
	{Symbol: "^RUT", Name: "Russell 2000", Description: "2000 small-cap US companies"},
}

// SupportedIndices devuelve una copia del catálogo estático.
func SupportedIndices() []Index {
	out := make([]Index, len(supportedIndices))
	copy(out, supportedIndices)
	return out
}
