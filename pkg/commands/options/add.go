package options

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
)

// AddOptions
type AddOptions struct {
	Title          string
	Description    string
	Tags           []string
	DeadlineString string
	StartString    string
	EndString      string
}

func AddTaskArgs(cmd *cobra.Command, o *AddOptions) {
	addCommonArgs(cmd, o)
	cmd.Flags().StringVar(&o.DeadlineString, "deadline", "",
		`Specify a deadline, example: --deadline="2020-2-28 17:00".`)
}

func AddEventArgs(cmd *cobra.Command, o *AddOptions) {
	addCommonArgs(cmd, o)
	cmd.Flags().StringVar(&o.StartString, "start", "",
		`Specify when the event starts, example: --start="2020-2-28 9:00".`)
	cmd.Flags().StringVar(&o.EndString, "end", "",
		`Specify when the event ends; defaults to one hour after start.`)
}

// AddEntryArgs registers the flags of both kinds; --start makes an event.
func AddEntryArgs(cmd *cobra.Command, o *AddOptions) {
	AddTaskArgs(cmd, o)
	cmd.Flags().StringVar(&o.StartString, "start", "",
		`Add an event starting at this time, example: --start="2020-2-28 9:00".`)
	cmd.Flags().StringVar(&o.EndString, "end", "",
		`When the event ends; defaults to one hour after start.`)
}

// IsEvent reports whether the flags describe an event.
func (o *AddOptions) IsEvent() bool {
	return o.StartString != "" || o.EndString != ""
}

func addCommonArgs(cmd *cobra.Command, o *AddOptions) {
	cmd.Flags().StringSliceVarP(&o.Tags, "tag", "t", nil,
		"Tag the entry, repeatable.")
	cmd.Flags().StringVarP(&o.Description, "description", "d", "",
		"A longer description.")
}

func (o *AddOptions) GetDeadline(now time.Time) (*time.Time, error) {
	return parseOptional(o.DeadlineString, now)
}

// GetSpan returns the event span.
func (o *AddOptions) GetSpan(now time.Time) (time.Time, time.Time, error) {
	if o.StartString == "" {
		return time.Time{}, time.Time{}, errors.New("an event requires --start")
	}
	start, err := ParseWhen(o.StartString, now)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if o.EndString == "" {
		return start, start.Add(time.Hour), nil
	}
	end, err := ParseWhen(o.EndString, now)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// EditOptions holds the fields an edit may change. Unset flags are kept.
type EditOptions struct {
	AddOptions
	NewTitle      string
	ClearDeadline bool
}

func AddEditArgs(cmd *cobra.Command, o *EditOptions) {
	cmd.Flags().StringVar(&o.NewTitle, "title", "", "New title.")
	cmd.Flags().StringVarP(&o.Description, "description", "d", "", "New description.")
	cmd.Flags().StringSliceVar(&o.Tags, "tags", nil, "Replace all tags.")
	cmd.Flags().StringVar(&o.DeadlineString, "deadline", "", "New deadline of a task.")
	cmd.Flags().BoolVar(&o.ClearDeadline, "no-deadline", false, "Remove the deadline of a task.")
	cmd.Flags().StringVar(&o.StartString, "start", "", "New start of an event.")
	cmd.Flags().StringVar(&o.EndString, "end", "", "New end of an event.")
}
