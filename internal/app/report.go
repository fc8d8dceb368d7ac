package app

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/tejashwikalptaru/shuffleplay/internal/domain"
)

// Report is the outcome of a single simulation, ready for rendering.
type Report struct {
	Seed    uint64                `json:"seed"`
	Config  domain.ShuffleConfig  `json:"config"`
	Result  *domain.PlayResult    `json:"result"`
	Gaps    *domain.GapStats      `json:"gaps,omitempty"`
	Catalog []domain.CatalogEntry `json:"catalog,omitempty"`
}

// BatchReport is the outcome of a batch of simulations.
type BatchReport struct {
	Config  domain.ShuffleConfig  `json:"config"`
	Result  *domain.BatchResult   `json:"result"`
	Catalog []domain.CatalogEntry `json:"catalog,omitempty"`
}

// WriteJSON renders v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteText renders a human-readable summary of the run.
func (r *Report) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	res := r.Result
	fmt.Fprintf(bw, "run %s (seed %d)\n", res.RunID, r.Seed)
	fmt.Fprintf(bw, "items=%d plays=%d randomness=%g buffer=%d min_rec=%g\n",
		len(res.Items), res.TotalPlays, r.Config.Randomness, r.Config.Buffer, r.Config.MinRec)
	writeWindow(bw, res.Window)
	writeCounts(bw, res.Items, res.Plays, r.Catalog)
	if res.Playlist != nil {
		fmt.Fprintf(bw, "playlist: %s\n", joinIDs(res.Playlist))
	}
	if r.Gaps != nil {
		writeGaps(bw, *r.Gaps)
	}
	return bw.Flush()
}

// WriteText renders a human-readable summary of the batch.
func (r *BatchReport) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	res := r.Result
	plays := 0
	for _, n := range res.Totals {
		plays += n
	}
	fmt.Fprintf(bw, "batch %s (seed %d)\n", res.BatchID, res.Seed)
	fmt.Fprintf(bw, "runs=%d plays=%d randomness=%g buffer=%d min_rec=%g\n",
		len(res.Runs), plays, r.Config.Randomness, r.Config.Buffer, r.Config.MinRec)
	if len(res.Runs) > 0 {
		writeWindow(bw, res.Runs[0].Window)
		writeCounts(bw, res.Runs[0].Items, res.Totals, r.Catalog)
	}
	if res.Gaps.Count > 0 {
		writeGaps(bw, res.Gaps)
	}
	return bw.Flush()
}

// WriteWindowTable renders one line per list length.
func WriteWindowTable(w io.Writer, table []domain.RecycleWindow) error {
	bw := bufio.NewWriter(w)
	tw := tabwriter.NewWriter(bw, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "songs\trecycle\tstart\t")
	for _, win := range table {
		fmt.Fprintf(tw, "%d\t%d\t%d\t\n", win.Length, win.Size, win.Start)
	}
	tw.Flush()
	return bw.Flush()
}

// Helpers below write to a *bufio.Writer, whose first error sticks until Flush.

func writeWindow(w *bufio.Writer, win domain.RecycleWindow) {
	fmt.Fprintf(w, "recycle window: %d positions (%d..%d)\n", win.Size, win.Start, win.Length)
}

func writeCounts(w *bufio.Writer, items []domain.ItemID, plays map[domain.ItemID]int, entries []domain.CatalogEntry) {
	titles := make(map[domain.ItemID]string, len(entries))
	for _, e := range entries {
		titles[e.ID] = e.Title
		if e.Artist != "" {
			titles[e.ID] = e.Artist + " - " + e.Title
		}
	}

	ids := slices.Clone(items)
	slices.Sort(ids)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "item\tplays\ttitle")
	for _, id := range ids {
		fmt.Fprintf(tw, "%d\t%d\t%s\n", id, plays[id], titles[id])
	}
	tw.Flush()
}

func writeGaps(w *bufio.Writer, gaps domain.GapStats) {
	fmt.Fprintf(w, "repeat gaps: count=%d min=%d max=%d mean=%.2f\n", gaps.Count, gaps.Min, gaps.Max, gaps.Mean)
	keys := make([]int, 0, len(gaps.Histogram))
	for gap := range gaps.Histogram {
		keys = append(keys, gap)
	}
	slices.Sort(keys)
	for _, gap := range keys {
		fmt.Fprintf(w, "  %4d %d\n", gap, gaps.Histogram[gap])
	}
}

func joinIDs(ids []domain.ItemID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(int(id))
	}
	return strings.Join(parts, " ")
}
