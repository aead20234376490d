package render

import (
	"encoding/json"

	"github.com/laidout/impose/pkg/disposition"
	"github.com/laidout/impose/pkg/errors"
)

type jsonOutput struct {
	Document
	Ranges [][]disposition.Range `json:"ranges"`
}

// JSON encodes doc with the page ranges of each spread.
func JSON(doc Document) ([]byte, error) {
	out := jsonOutput{Document: doc, Ranges: make([][]disposition.Range, len(doc.Spreads))}
	for i, s := range doc.Spreads {
		out.Ranges[i] = s.PageRanges()
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode json")
	}
	return data, nil
}
