// Package sound plays the alarm clip with an external player command,
// or rings the terminal bell when no clip is configured.
package sound

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// filePlaceholder in a command argument is replaced by the clip path.
const filePlaceholder = "{file}"

// bell is the ASCII BEL character.
const bell = "\a"

// ErrNoCommand indicates that a clip was requested without a player command.
var ErrNoCommand = errors.New("no sound player command configured")

// Player runs the configured command once per repetition, sequentially.
type Player struct {
	// command is the player executable followed by its arguments.
	command []string
	// bellOut receives the terminal bell when there is no clip.
	bellOut io.Writer
}

// NewPlayer creates a player. bellOut may be nil when the bell is not wanted.
func NewPlayer(command []string, bellOut io.Writer) *Player {
	return &Player{
		command: command,
		bellOut: bellOut,
	}
}

// Play plays clip repeat times and returns the first failure.
func (p *Player) Play(ctx context.Context, clip string, repeat int) error {
	if clip == "" {
		return p.ring(repeat)
	}

	if len(p.command) == 0 {
		return ErrNoCommand
	}

	name, args := commandLine(p.command, clip)

	for i := range repeat {
		if err := exec.CommandContext(ctx, name, args...).Run(); err != nil {
			return fmt.Errorf("play %s (%d of %d): %w", clip, i+1, repeat, err)
		}
	}

	return nil
}

// ring writes one bell per repetition.
func (p *Player) ring(repeat int) error {
	if p.bellOut == nil {
		return nil
	}

	if _, err := io.WriteString(p.bellOut, strings.Repeat(bell, repeat)); err != nil {
		return fmt.Errorf("ring bell: %w", err)
	}

	return nil
}

// commandLine substitutes the clip into the command or appends it.
func commandLine(command []string, clip string) (string, []string) {
	var (
		args     = make([]string, 0, len(command))
		replaced bool
	)

	for _, arg := range command[1:] {
		if strings.Contains(arg, filePlaceholder) {
			arg = strings.ReplaceAll(arg, filePlaceholder, clip)
			replaced = true
		}

		args = append(args, arg)
	}

	if !replaced {
		args = append(args, clip)
	}

	return command[0], args
}
