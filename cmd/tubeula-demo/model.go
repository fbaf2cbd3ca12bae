package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	byteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	hintStyle   = lipgloss.NewStyle().Faint(true)
)

type registerMsg [8]byte

type model struct {
	updates <-chan [8]byte
	regs    [8]byte
}

func newModel(updates <-chan [8]byte) model {
	return model{updates: updates}
}

func (m model) Init() tea.Cmd {
	return waitForUpdate(m.updates)
}

// waitForUpdate turns the next value off the publish() channel into a Bubble
// Tea message, re-armed after every Update - the same "one callback, one
// render" shape the original register-file cache has (spec.md §4.1).
func waitForUpdate(updates <-chan [8]byte) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return nil
		}
		return registerMsg(snap)
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}
	case registerMsg:
		m.regs = [8]byte(msg)
		return m, waitForUpdate(m.updates)
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("tubeula-demo") + "\n\n")

	labels := [8]string{"HSTAT1", "PH1", "HSTAT2", "PH2", "HSTAT3", "PH3", "HSTAT4", "PH4"}
	for i, label := range labels {
		b.WriteString(fmt.Sprintf("%-7s %s\n", label, byteStyle.Render(fmt.Sprintf("%#02x", m.regs[i]))))
	}

	b.WriteString("\n" + hintStyle.Render("keys 1-4 write a byte to R1-R4, r resets, q quits") + "\n")
	return b.String()
}
