package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Manage stored drafts",
	Long: `Load, edit, save and clear the stored drafts of equipment instances.

Draft keys have the form report/equipment[/instance], e.g. r1/fan/east.`,
}

var draftListCmd = &cobra.Command{
	Use:   "list [prefix]",
	Short: "List stored draft keys",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDraftList,
}

var draftShowCmd = &cobra.Command{
	Use:   "show [key] [equipment]",
	Short: "Print the normalised draft stored under key",
	Args:  cobra.ExactArgs(2),
	RunE:  runDraftShow,
}

var draftSaveCmd = &cobra.Command{
	Use:   "save [key] [equipment] [file]",
	Short: "Normalise a JSON document and store it under key",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runDraftSave,
}

var draftSetCmd = &cobra.Command{
	Use:   "set [key] [equipment] [path=value...]",
	Short: "Edit fields of a stored draft",
	Long: `Open the draft under key, write each path=value pair and save.

Paths are dot separated, e.g. rated.voltage, checklist.Vibration,
config.roomCount or units.<id>.fields.noiseDb. List values take an index,
e.g. measured.velocity.2.

Example:
  reportdraft draft set r1/fan/east fan measured.voltage=380 measured.current=10`,
	Args: cobra.MinimumNArgs(3),
	RunE: runDraftSet,
}

var draftPhotoCmd = &cobra.Command{
	Use:   "photo [key] [equipment] [slot] [files...]",
	Short: "Attach photos to a slot of a stored draft",
	Args:  cobra.MinimumNArgs(4),
	RunE:  runDraftPhoto,
}

var draftClearCmd = &cobra.Command{
	Use:   "clear [key]",
	Short: "Delete the draft stored under key",
	Args:  cobra.ExactArgs(1),
	RunE:  runDraftClear,
}

func init() {
	draftCmd.AddCommand(draftListCmd)
	draftCmd.AddCommand(draftShowCmd)
	draftCmd.AddCommand(draftSaveCmd)
	draftCmd.AddCommand(draftSetCmd)
	draftCmd.AddCommand(draftPhotoCmd)
	draftCmd.AddCommand(draftClearCmd)
	rootCmd.AddCommand(draftCmd)
}

func runDraftList(cmd *cobra.Command, args []string) error {
	if draftService == nil {
		return errors.New("draft service not configured")
	}
	prefix := ""
	if len(args) == 1 {
		prefix = args[0]
	}

	keys, err := draftService.List(cmd.Context(), prefix)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		cmd.Println("No drafts stored.")
		return nil
	}
	for _, k := range keys {
		cmd.Println(k)
	}
	return nil
}

func runDraftShow(cmd *cobra.Command, args []string) error {
	if draftService == nil {
		return errors.New("draft service not configured")
	}

	doc, res := draftService.Load(cmd.Context(), args[0], args[1])
	if !res.OK {
		return fmt.Errorf("loading draft: %s", res.Error)
	}
	if res.Draft == nil {
		cmd.PrintErrf("No draft under %s, showing an empty document.\n", args[0])
	}
	return printJSON(cmd, doc)
}

func runDraftSave(cmd *cobra.Command, args []string) error {
	if draftService == nil || catalogService == nil {
		return errors.New("draft service not configured")
	}
	raw, err := readDocument(cmd, args, 2)
	if err != nil {
		return err
	}
	doc, err := catalogService.Normalise(args[1], raw)
	if err != nil {
		return err
	}

	if res := draftService.Save(cmd.Context(), args[0], args[1], doc); !res.OK {
		return fmt.Errorf("saving draft: %s", res.Error)
	}
	cmd.Printf("Saved %s\n", args[0])
	return nil
}

func runDraftSet(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}
	edits, err := parseAssignments(args[2:])
	if err != nil {
		return err
	}

	session, err := sessionService.Open(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	for _, e := range edits {
		if _, err := session.Keystroke(e.path, e.value); err != nil {
			session.Close(context.WithoutCancel(cmd.Context()))
			return err
		}
	}
	session.Commit()

	if res := session.Close(cmd.Context()); !res.OK {
		return fmt.Errorf("saving draft: %s", res.Error)
	}
	cmd.Printf("Updated %d field(s) of %s\n", len(edits), args[0])
	printDerived(cmd, session.Derived())
	return nil
}

func runDraftPhoto(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	session, err := sessionService.Open(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	files := make([]domain.FileHandle, 0, len(args)-3)
	for _, path := range args[3:] {
		files = append(files, domain.FileHandle{Path: path})
	}
	addErr := session.AddPhotos(cmd.Context(), args[2], files)

	if res := session.Close(cmd.Context()); !res.OK {
		return fmt.Errorf("saving draft: %s", res.Error)
	}
	if addErr != nil {
		return addErr
	}
	cmd.Printf("Attached %d photo(s) to %s of %s\n", len(files), args[2], args[0])
	return nil
}

func runDraftClear(cmd *cobra.Command, args []string) error {
	if draftService == nil {
		return errors.New("draft service not configured")
	}
	if res := draftService.Clear(cmd.Context(), args[0]); !res.OK {
		return fmt.Errorf("clearing draft: %s", res.Error)
	}
	cmd.Printf("Cleared %s\n", args[0])
	return nil
}

type assignment struct {
	path  string
	value any
}

// parseAssignments splits path=value pairs. Values true and false become
// booleans; everything else stays text and is coerced by the schema.
func parseAssignments(pairs []string) ([]assignment, error) {
	out := make([]assignment, 0, len(pairs))
	for _, pair := range pairs {
		path, value, ok := strings.Cut(pair, "=")
		path = strings.TrimSpace(path)
		if !ok || path == "" {
			return nil, fmt.Errorf("%w: expected path=value, got %q", domain.ErrInvalidInput, pair)
		}
		var v any = value
		switch value {
		case "true":
			v = true
		case "false":
			v = false
		}
		out = append(out, assignment{path: path, value: v})
	}
	return out, nil
}

func printDerived(cmd *cobra.Command, values []domain.DerivedValue) {
	if len(values) == 0 {
		return
	}
	cmd.Println()
	for _, v := range values {
		cmd.Printf("  %-24s %s\n", v.Label, formatDerived(v))
	}
}
