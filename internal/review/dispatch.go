package review

import (
	"context"
	"fmt"
	"strings"
)

// Command is one parsed console command with its payload.
type Command struct {
	Name string
	Args []string
}

// ParseCommand splits an input line into a command and its arguments.
func ParseCommand(line string) Command {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}
	}
	return Command{Name: strings.ToLower(fields[0]), Args: fields[1:]}
}

// Dispatch routes a command to the session operation it names. This keeps
// the interactive loop free of review logic, so the workflow engine can
// be exercised without any terminal attached.
func (s *Session) Dispatch(ctx context.Context, cmd Command) error {
	switch cmd.Name {
	case "":
		return nil
	case "select":
		if len(cmd.Args) == 0 {
			return fmt.Errorf("usage: select <proposal-id>")
		}
		return s.Select(ctx, cmd.Args[0])
	case "refresh", "detail":
		return s.Refresh(ctx)
	case "approve", "reject", "apply", "rollback":
		return s.RunAction(ctx, ActionKind(cmd.Name), ActionOptions{Reason: strings.Join(cmd.Args, " ")})
	case "artifacts", "render":
		return s.RenderArtifacts(ctx)
	case "preview":
		if len(cmd.Args) == 0 {
			return fmt.Errorf("usage: preview <artifact-key>")
		}
		return s.PreviewKey(cmd.Args[0])
	case "export":
		section := "all"
		if len(cmd.Args) > 0 {
			section = cmd.Args[0]
		}
		valid := false
		for _, v := range ExportSections {
			if v == section {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("unknown export section %q (want one of %s)", section, strings.Join(ExportSections, ", "))
		}
		return s.ExportReview(ctx, section)
	case "actions":
		return s.LoadActions(ctx)
	default:
		return fmt.Errorf("unknown command %q", cmd.Name)
	}
}
