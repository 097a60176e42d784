package output

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yairfalse/polmon/internal/pipeline"
	"github.com/yairfalse/polmon/pkg/domain"
)

// HumanFormatter prints results for a terminal
type HumanFormatter struct {
	w io.Writer
}

func NewHumanFormatter(w io.Writer) *HumanFormatter {
	return &HumanFormatter{w: w}
}

func (f *HumanFormatter) PrintSummaries(summaries []pipeline.Summary) error {
	if len(summaries) == 0 {
		fmt.Fprintln(f.w, "No log files given")
		return nil
	}

	for i := range summaries {
		f.printSummary(&summaries[i])
	}

	failed := countFailed(summaries)
	fmt.Fprintln(f.w, Colors.Heading(strings.Repeat(Icons.Separator, 40)))
	if failed == 0 {
		fmt.Fprintf(f.w, "%s %d groups processed\n", Colors.Success("DONE:"), len(summaries))
	} else {
		fmt.Fprintf(f.w, "%s %d of %d groups failed\n", Colors.Error("FAILED:"), failed, len(summaries))
	}
	return nil
}

func (f *HumanFormatter) printSummary(s *pipeline.Summary) {
	icon, label := Colors.Success(Icons.Success), s.SafeName
	if label == "" {
		label = s.Path
	}
	if err := s.Err(); err != nil {
		icon = Colors.Error(Icons.Error)
		if errors.Is(err, domain.ErrInferenceFailed) {
			icon = Colors.Warning(Icons.Warning)
		}
	}

	fmt.Fprintf(f.w, "%s %s\n", icon, Colors.Heading(label))
	if s.Pot != "" {
		fmt.Fprintf(f.w, "    pot:      %s\n", s.Pot)
	}
	if s.JobURL != "" {
		fmt.Fprintf(f.w, "    job:      %s\n", Colors.Info(s.JobURL))
	}
	fmt.Fprintf(f.w, "    entries:  %d (%d lines, %d bytes)\n", s.Entries, s.Lines, s.Bytes)
	if len(s.Nodes) > 0 || len(s.Subnets) > 0 {
		fmt.Fprintf(f.w, "    topology: %d nodes, %d subnets\n", len(s.Nodes), len(s.Subnets))
	}
	if s.Error != "" {
		fmt.Fprintf(f.w, "    error:    %s\n", Colors.Error(s.Error))
	}
}

func (f *HumanFormatter) PrintNames(names []NameInfo) error {
	for _, n := range names {
		fmt.Fprintf(f.w, "%s\n", Colors.Heading(n.Name))
		fmt.Fprintf(f.w, "    pot:   %s\n", n.Pot)
		switch {
		case n.JobID != nil:
			fmt.Fprintf(f.w, "    job:   %d %s\n", *n.JobID, Colors.Info(n.JobURL))
		case n.Local:
			fmt.Fprintf(f.w, "    job:   %s\n", Colors.Warning("none (local run)"))
		default:
			fmt.Fprintf(f.w, "    job:   none\n")
		}
	}
	return nil
}
