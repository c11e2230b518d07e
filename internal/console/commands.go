package console

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/netpbm-tools-mcp/internal/transform"
)

type command struct {
	usage string
	help  string

	// minArgs and maxArgs bound the argument count; maxArgs < 0 means
	// unbounded.
	minArgs, maxArgs int

	run func(c *Console, args []string) error
}

func (cmd command) checkArgs(name string, args []string) error {
	n := len(args)
	switch {
	case cmd.maxArgs == 0 && n > 0:
		return fmt.Errorf("%s command does not accept any arguments", name)
	case n < cmd.minArgs || (cmd.maxArgs >= 0 && n > cmd.maxArgs):
		return fmt.Errorf("invalid arguments for %s. Usage: %s", name, cmd.usage)
	}
	return nil
}

// commandOrder is the order commands appear in help.
var commandOrder = []string{
	"load", "add", "save", "saveas",
	"grayscale", "monochrome", "negative", "rotate", "undo",
	"sessioninfo", "switch", "collage", "close",
}

func commands() map[string]command {
	return map[string]command{
		"load": {
			usage: "load <file> [file2 ...]", help: "Start session with images",
			minArgs: 1, maxArgs: -1, run: (*Console).load,
		},
		"add": {
			usage: "add <file>", help: "Add image to current session",
			minArgs: 1, maxArgs: 1, run: (*Console).add,
		},
		"save": {
			usage: "save", help: "Save all images",
			run: (*Console).save,
		},
		"saveas": {
			usage: "saveas <file>", help: "Save first image with new name",
			minArgs: 1, maxArgs: 1, run: (*Console).saveAs,
		},
		"grayscale": {
			usage: "grayscale", help: "Queue grayscale transformation",
			run: queue(transform.Grayscale),
		},
		"monochrome": {
			usage: "monochrome", help: "Queue monochrome transformation",
			run: queue(transform.Monochrome),
		},
		"negative": {
			usage: "negative", help: "Queue negative transformation",
			run: queue(transform.Negative),
		},
		"rotate": {
			usage: "rotate <left|right>", help: "Queue a 90° rotation",
			minArgs: 1, maxArgs: 1, run: (*Console).rotate,
		},
		"undo": {
			usage: "undo", help: "Undo last queued transformation",
			run: (*Console).undo,
		},
		"sessioninfo": {
			usage: "sessioninfo", help: "Show session details",
			run: (*Console).sessionInfo,
		},
		"switch": {
			usage: "switch <session_id>", help: "Switch to different session",
			minArgs: 1, maxArgs: 1, run: (*Console).switchSession,
		},
		"collage": {
			usage: "collage <direction> <image1> <image2> <outimage>", help: "Create collage",
			minArgs: 4, maxArgs: 4, run: (*Console).collage,
		},
		"close": {
			usage: "close", help: "Close current session",
			run: (*Console).closeSession,
		},
	}
}

func (c *Console) load(args []string) error {
	res, err := c.sessions.Load(args...)
	if err != nil {
		return err
	}
	for _, name := range res.Loaded {
		c.printf("Image %q added", name)
	}
	c.printf("Session with ID: %d started", res.SessionID)
	if len(res.Failed) > 0 {
		failed := make([]string, len(res.Failed))
		for i, d := range res.Failed {
			failed[i] = d.String()
		}
		c.printf("Warning: %d file(s) could not be loaded: %s", len(failed), strings.Join(failed, ", "))
	}
	return nil
}

func (c *Console) add(args []string) error {
	img, err := c.sessions.Add(args[0])
	if err != nil {
		return err
	}
	c.printf("Image %q added to current session", img.Name)
	return nil
}

func (c *Console) save(args []string) error {
	if s, err := c.sessions.Active(); err == nil && s.HasPending() {
		c.printf("Applying pending transformations to all images...")
	}
	res, err := c.sessions.Save()
	if err != nil {
		return err
	}
	for _, n := range res.Notices {
		c.printf("Notice: %s", n)
	}
	for _, p := range res.Paths {
		c.printf("  wrote %s", p)
	}
	c.printf("Saved all images successfully!")
	return nil
}

func (c *Console) saveAs(args []string) error {
	path, err := c.sessions.SaveAs(args[0])
	if err != nil {
		return err
	}
	c.printf("Successfully saved as %s", path)
	return nil
}

func queue(kind transform.Kind) func(*Console, []string) error {
	return func(c *Console, _ []string) error {
		if _, err := c.sessions.Enqueue(kind.String()); err != nil {
			return err
		}
		c.printf("Queued %s transformation for all images", kind)
		return nil
	}
}

func (c *Console) rotate(args []string) error {
	dir := strings.ToLower(args[0])
	if dir != "left" && dir != "right" {
		return fmt.Errorf("invalid rotation direction. Use 'left' or 'right'")
	}
	if _, err := c.sessions.Enqueue("rotate_" + dir); err != nil {
		return err
	}
	c.printf("Queued %s rotation transformation", dir)
	return nil
}

func (c *Console) undo(args []string) error {
	kind, err := c.sessions.Undo()
	if err != nil {
		return err
	}
	s, err := c.sessions.Active()
	if err != nil {
		return err
	}
	c.printf("Undid last transformation: %s", kind)
	c.printf("Remaining transformations: %d", len(s.Pending()))
	return nil
}

func (c *Console) sessionInfo(args []string) error {
	info, err := c.sessions.Info()
	if err != nil {
		return err
	}
	return c.writeYAML(info)
}

func (c *Console) writeYAML(v interface{}) error {
	enc := yaml.NewEncoder(c.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to render session: %w", err)
	}
	return enc.Close()
}

func (c *Console) switchSession(args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("session ID must be a valid number")
	}
	s, err := c.sessions.Switch(id)
	if err != nil {
		return err
	}
	c.printf("Switched to session ID: %d", s.ID())
	c.printf("Images in session: %d", len(s.Images()))
	if s.HasPending() {
		c.printf("Pending transformations: %s", kindList(s.Pending()))
	}
	return nil
}

func (c *Console) collage(args []string) error {
	img, err := c.sessions.Collage(args[0], args[1], args[2], args[3])
	if err != nil {
		return err
	}
	c.printf("Created collage '%s' (%s)", img.Name, strings.ToLower(args[0]))
	return nil
}

func (c *Console) closeSession(args []string) error {
	closed, next, err := c.sessions.Close()
	if err != nil {
		return err
	}
	c.printf("Session %d closed successfully", closed)
	if next == 0 {
		c.printf("No active sessions remaining")
		return nil
	}

	ids := make([]string, 0)
	for _, s := range c.sessions.Sessions() {
		ids = append(ids, strconv.Itoa(s.ID))
	}
	c.printf("Active session: %d", next)
	c.printf("Available sessions (ID): %s", strings.Join(ids, " "))
	return nil
}

func kindList(kinds []transform.Kind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}
