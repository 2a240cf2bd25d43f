// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Registry maps command names to their implementations.
// It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
	}
}

// DefaultRegistry returns a registry holding every tarsh builtin.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(newCalCommand())
	r.Register(newCatCommand())
	r.Register(newCdCommand())
	r.Register(newEchoCommand())
	r.Register(newExitCommand())
	r.Register(newFileCommand())
	r.Register(newFindCommand())
	r.Register(newHelpCommand(r))
	r.Register(newLsCommand())
	r.Register(newPwdCommand())
	r.Register(newStatCommand())
	r.Register(newTreeCommand())
	return r
}

// Register adds a command to the registry.
// Panics if a command with the same name is already registered.
func (r *Registry) Register(cmd Command) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := cmd.Name()
	if name == "" {
		panic("builtin: cannot register command with empty name")
	}
	if _, exists := r.commands[name]; exists {
		panic(fmt.Sprintf("builtin: command %q already registered", name))
	}
	r.commands[name] = cmd
}

// Lookup retrieves a command by name.
// Returns nil, false if the command is not registered.
func (r *Registry) Lookup(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmd, ok := r.commands[name]
	return cmd, ok
}

// Names returns the names of all registered commands in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Run executes the command named by args[0].
// Returns a *NotFoundError if no such command is registered.
func (r *Registry) Run(ctx context.Context, env *Env, args []string) error {
	if len(args) == 0 {
		return nil
	}
	cmd, ok := r.Lookup(args[0])
	if !ok {
		return &NotFoundError{Name: args[0]}
	}
	return cmd.Run(ctx, env, args)
}
