package analyze

import "fmt"

// KeyValuePair is one label/value association recognized by layout
// analysis, with the recognizer's confidence for the pairing.
type KeyValuePair struct {
	Key        string
	Value      string
	Confidence float64
}

// Result is the output of one document analysis call: the full extracted
// text, the recognized key/value pairs in recognition order, and any tables
// already expanded into rectangular grids.
type Result struct {
	Content       string
	KeyValuePairs []KeyValuePair
	Tables        [][][]string
}

// ExtractionError reports a failed upstream analysis call. The document's
// normalization is aborted outright; no partial result is produced.
type ExtractionError struct {
	Status  string
	Message string
}

func (e *ExtractionError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("document analysis failed (%s): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("document analysis failed: %s", e.Message)
}

// wire shapes for the Document Intelligence REST API

type analyzeResponse struct {
	Status        string        `json:"status"`
	Error         *wireError    `json:"error,omitempty"`
	AnalyzeResult analyzeResult `json:"analyzeResult"`
}

type wireError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type analyzeResult struct {
	Content       string     `json:"content"`
	KeyValuePairs []wireKV   `json:"keyValuePairs"`
	Tables        []rawTable `json:"tables"`
}

type wireKV struct {
	Key        *wireContent `json:"key"`
	Value      *wireContent `json:"value"`
	Confidence float64      `json:"confidence"`
}

type wireContent struct {
	Content string `json:"content"`
}

// rawTable is a table as reported by layout analysis: declared dimensions
// plus a flat cell list with explicit coordinates.
type rawTable struct {
	RowCount    int            `json:"rowCount"`
	ColumnCount int            `json:"columnCount"`
	Cells       []rawTableCell `json:"cells"`
}

type rawTableCell struct {
	RowIndex    int    `json:"rowIndex"`
	ColumnIndex int    `json:"columnIndex"`
	Content     string `json:"content"`
}
