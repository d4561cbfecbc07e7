package builder

import (
	"fmt"
	"io"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/todoran/sitepub/internal/helpers"
)

// Report holds the size totals of one publish run.
type Report struct {
	Files         int   `json:"files"`
	AssetBytes    int64 `json:"asset_bytes"`
	RawBytes      int64 `json:"raw_bytes"`
	MinifiedBytes int64 `json:"minified_bytes"`
}

// Reduction returns the size reduction in whole percent, rounding halves up.
// ok is false when no source bytes were processed.
func (r *Report) Reduction() (pct int, ok bool) {
	if r.RawBytes == 0 {
		return 0, false
	}
	ratio := 1 - float64(r.MinifiedBytes)/float64(r.RawBytes)
	return int(math.Floor(ratio*100 + 0.5)), true
}

var (
	sizeColor = color.New(color.FgHiYellow)
	pctColor  = color.New(color.FgHiGreen)
)

func (r *Report) Print(w io.Writer) error {
	_, err := fmt.Fprintf(w, "total size of all assets: %s\n", sizeColor.Sprint(humanize.Bytes(uint64(r.AssetBytes))))
	if err != nil {
		return err
	}

	pct, ok := r.Reduction()
	if !ok {
		_, err = fmt.Fprintf(w, "%d files, no compression computed\n", r.Files)
		return err
	}

	_, err = fmt.Fprintf(w, "raw size of html, css, and js: %s\nminified size: %s\ncompressed by %s\n",
		sizeColor.Sprint(humanize.Bytes(uint64(r.RawBytes))),
		sizeColor.Sprint(humanize.Bytes(uint64(r.MinifiedBytes))),
		pctColor.Sprintf("%d%%", pct),
	)
	return err
}

type jsonReport struct {
	*Report
	Reduction *int `json:"reduction_percent"`
}

// WriteJSON writes the report as a single JSON object. reduction_percent is
// null when nothing was minified.
func (r *Report) WriteJSON(w io.Writer) error {
	out := jsonReport{Report: r}
	if pct, ok := r.Reduction(); ok {
		out.Reduction = &pct
	}
	return helpers.WriteJSON(w, out)
}
