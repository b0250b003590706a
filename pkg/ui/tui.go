// Package ui provides the Bubble Tea TUI for the wallet keeper.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ethereum/go-ethereum/common"

	"github.com/roshanbvadassery/send-openputer-kit/business/wallet/domain"
	"github.com/roshanbvadassery/send-openputer-kit/internal/asset"
	"github.com/roshanbvadassery/send-openputer-kit/pkg/ui/components"
)

// ConnectionInfo holds connection state and latency.
type ConnectionInfo struct {
	Connected bool
	Latency   time.Duration
	LastSeen  time.Time
}

// StartupStep represents a step in the startup process.
type StartupStep struct {
	Name   string
	Status string // "pending", "connecting", "connected", "failed"
}

// Phase represents the current UI phase.
type Phase string

const (
	PhaseWelcome   Phase = "welcome"   // Initial welcome screen
	PhaseStartup   Phase = "startup"   // Loading/connecting
	PhaseDashboard Phase = "dashboard" // Main dashboard
)

// WelcomeDuration is how long the welcome screen shows before auto-advancing.
const WelcomeDuration = 2 * time.Second

// AlertEntry represents an actionable status with timestamp.
type AlertEntry struct {
	Summary   string
	Detail    string
	Timestamp time.Time
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	// Components
	cycles   *components.CyclesComponent
	balances *components.BalancesComponent
	stats    *components.StatsComponent

	// Phase state
	phase        Phase
	welcomeStart time.Time

	// State
	ready           bool
	quitting        bool
	paused          bool
	width           int
	height          int
	chainID         uint64
	lastBlock       uint64
	connectionState map[string]*ConnectionInfo
	lastUpdate      time.Time
	alerts          []AlertEntry // Persistent alert panel (last 3)
	logs            []string     // Recent log messages

	// Startup state
	startupComplete bool
	startupSteps    map[string]*StartupStep
	startupTime     time.Time

	// Keeper counters
	cyclesRun int64
	topUps    int64
	alertsRun int64
	errsRun   int64
	firstSeen bool
}

// New creates a new TUI model.
func New() Model {
	now := time.Now()
	return Model{
		cycles:   components.NewCyclesComponent(50), // Store more for scrolling
		balances: components.NewBalancesComponent(),
		stats:    components.NewStatsComponent(),
		phase:    PhaseWelcome,
		welcomeStart: now,
		connectionState: map[string]*ConnectionInfo{
			"Ledger": {Connected: false},
		},
		logs:   make([]string, 0, 10),
		alerts: make([]AlertEntry, 0, 3),
		startupSteps: map[string]*StartupStep{
			"config": {Name: "Loading configuration", Status: "pending"},
			"ledger": {Name: "Connecting to ledger", Status: "pending"},
			"keeper": {Name: "Starting keeper loop", Status: "pending"},
		},
		startupTime: now,
	}
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick every 100ms for smooth animations.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Always allow quit
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		// During welcome phase, any other key skips to startup
		if m.phase == PhaseWelcome {
			m.phase = PhaseStartup
			m.startupTime = time.Now()
			// Trigger callback directly (don't use Send() from within Update)
			if OnStartModules != nil {
				go OnStartModules()
			}
			return m, tickCmd()
		}
		// Normal key handling
		switch msg.String() {
		case "c":
			m.cycles.Clear()
			return m, nil
		case "p":
			m.paused = !m.paused
			return m, nil
		case "up", "k":
			m.cycles.ScrollUp()
			return m, nil
		case "down", "j":
			m.cycles.ScrollDown()
			return m, nil
		case "e":
			m.alerts = make([]AlertEntry, 0, 3)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case TickMsg:
		// Check if welcome timeout has elapsed
		if m.phase == PhaseWelcome && time.Since(m.welcomeStart) >= WelcomeDuration {
			m.phase = PhaseStartup
			m.startupTime = time.Now()
			// Trigger callback directly (don't use Send() from within Update)
			if OnStartModules != nil {
				go OnStartModules()
			}
		}
		return m, tickCmd()

	case CycleMsg:
		if msg.Outcome != nil {
			m.recordCycle(msg.Status, msg.Outcome)
		}

	case BalanceMsg:
		m.balances.SetTarget(components.BalanceInfo{
			Label:   "Watched",
			Balance: formatAmount(msg.Target),
		})
		m.balances.SetFunding(components.BalanceInfo{
			Label:   "Funding",
			Balance: formatAmount(msg.Funding),
		})
		m.lastUpdate = time.Now()

	case PolicyMsg:
		m.balances.SetPolicy(msg.Threshold, msg.TopUp)

	case ConnectionStatusMsg:
		m.connectionState[msg.Name] = &ConnectionInfo{
			Connected: msg.Connected,
			Latency:   msg.Latency,
			LastSeen:  time.Now(),
		}
		if msg.ChainID > 0 {
			m.chainID = msg.ChainID
		}
		if msg.LastBlock > 0 {
			m.lastBlock = msg.LastBlock
		}
		m.lastUpdate = time.Now()

		// Update startup steps based on connection
		stepKey := strings.ToLower(msg.Name)
		if step, ok := m.startupSteps[stepKey]; ok {
			if msg.Connected {
				step.Status = "connected"
			} else {
				step.Status = "connecting"
			}
		}
		// Config loading finished before any connection attempt
		if m.startupSteps["config"] != nil {
			m.startupSteps["config"].Status = "done"
		}

	case ErrorMsg:
		m.errsRun++
		m.logs = addLog(m.logs, "error", msg.Error.Error())
		m.syncStats()

	case LogMsg:
		m.logs = addLog(m.logs, msg.Level, msg.Message)

	case StartupMsg:
		if step, ok := m.startupSteps[msg.Step]; ok {
			step.Status = msg.Status
		}
		// Check if all steps are complete
		allConnected := true
		for _, step := range m.startupSteps {
			if step.Status != "connected" && step.Status != "done" {
				allConnected = false
				break
			}
		}
		if allConnected {
			m.startupComplete = true
		}
	}

	return m, nil
}

// recordCycle folds one cycle outcome into the model state.
func (m *Model) recordCycle(status domain.Status, outcome *domain.CycleOutcome) {
	m.cyclesRun++
	switch outcome.Kind {
	case domain.KindToppedUp:
		m.topUps++
	case domain.KindTransientError:
		m.errsRun++
	}
	if status.Actionable() {
		m.alertsRun++
		m.alerts = append(m.alerts, AlertEntry{
			Summary:   status.Summary,
			Detail:    status.Detail,
			Timestamp: status.Timestamp,
		})
		if len(m.alerts) > 3 {
			m.alerts = m.alerts[len(m.alerts)-3:]
		}
	}

	balance := outcome.NewBalance
	if balance == (asset.Amount{}) {
		balance = outcome.OldBalance
	}

	transferID := ""
	if outcome.TransferID != (common.Hash{}) {
		transferID = outcome.TransferID.Hex()
	}

	m.cycles.Add(components.CycleRow{
		Timestamp:  outcome.Timestamp.Format("15:04:05"),
		Kind:       string(outcome.Kind),
		Balance:    formatAmount(balance),
		TransferID: transferID,
		Detail:     status.Summary,
		Healthy:    outcome.Kind == domain.KindHealthy,
		Actionable: status.Actionable(),
	})

	m.firstSeen = true
	m.lastUpdate = time.Now()
	m.syncStats()

	// Keeper is demonstrably running once the first cycle lands
	if m.startupSteps["keeper"] != nil {
		m.startupSteps["keeper"].Status = "done"
	}
}

func (m *Model) syncStats() {
	m.stats.Update(components.Stats{
		CyclesRun: m.cyclesRun,
		TopUps:    m.topUps,
		Alerts:    m.alertsRun,
		Errors:    m.errsRun,
	})
}

// formatAmount renders an amount, tolerating the zero value.
func formatAmount(a asset.Amount) string {
	if a == (asset.Amount{}) {
		return "—"
	}
	return a.String()
}

// addLog adds a log message and returns the updated slice (keeps last 5).
func addLog(logs []string, level, message string) []string {
	timestamp := time.Now().Format("15:04:05")
	logLine := fmt.Sprintf("[%s] %s: %s", timestamp, level, message)
	logs = append(logs, logLine)
	if len(logs) > 5 {
		logs = logs[len(logs)-5:]
	}
	return logs
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}

	// Phase-based rendering
	switch m.phase {
	case PhaseWelcome:
		return m.renderWelcomeScreen()
	case PhaseStartup:
		// Show startup until the first cycle or all steps complete
		if !m.firstSeen && !m.startupComplete {
			return m.renderStartupScreen()
		}
		// Transition to dashboard when ready
		m.phase = PhaseDashboard
		fallthrough
	case PhaseDashboard:
		// Continue to main dashboard
	}

	var b strings.Builder

	// Title
	title := TitleStyle.Render(" 🩺 Wallet Keeper ")
	b.WriteString(title)
	b.WriteString("\n\n")

	// Status bar
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n\n")

	// Main content: balances + stats on left, cycles on right
	var leftContent strings.Builder
	leftContent.WriteString(m.balances.View())
	leftContent.WriteString("\n\n")
	leftContent.WriteString(m.stats.View())
	leftCol := leftContent.String()

	rightCol := m.cycles.View()

	// Side by side if enough width
	if m.width > 100 {
		left := BoxStyle.Width(m.width/3 - 2).Render(leftCol)
		right := BoxStyle.Width(2*m.width/3 - 2).Render(rightCol)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	} else {
		b.WriteString(BoxStyle.Width(m.width - 4).Render(leftCol))
		b.WriteString("\n")
		b.WriteString(BoxStyle.Width(m.width - 4).Render(rightCol))
	}

	b.WriteString("\n\n")

	// Persistent alert panel (show last 3 actionable statuses)
	if len(m.alerts) > 0 {
		alertStyle := lipgloss.NewStyle().Foreground(ColorDanger)
		alertHeader := lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)
		mutedAlert := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))

		b.WriteString(alertHeader.Render("ATTENTION REQUIRED"))
		b.WriteString(mutedAlert.Render(" (e: clear)"))
		b.WriteString("\n")
		for _, alert := range m.alerts {
			ago := time.Since(alert.Timestamp).Round(time.Second)
			b.WriteString(alertStyle.Render(fmt.Sprintf("  • %s ", alert.Detail)))
			b.WriteString(mutedAlert.Render(fmt.Sprintf("(%s ago)", ago)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Recent logs
	if len(m.logs) > 0 {
		mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)
		for _, line := range m.logs {
			b.WriteString(mutedStyle.Render("  " + line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Help
	helpText := "q: quit • c: clear • p: pause • ↑↓: scroll • e: clear alerts"
	if m.paused {
		pauseStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorWarning)
		b.WriteString(pauseStyle.Render("⏸ PAUSED"))
		b.WriteString(" • ")
	}
	b.WriteString(HelpStyle.Render(helpText))

	return b.String()
}

// renderWelcomeScreen renders the animated welcome screen.
func (m Model) renderWelcomeScreen() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary)

	goldStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorWarning)

	mutedStyle := lipgloss.NewStyle().
		Foreground(ColorMuted)

	greenStyle := lipgloss.NewStyle().
		Foreground(ColorSecondary)

	// Animated dots based on time
	elapsed := time.Since(m.welcomeStart)
	dotCount := int(elapsed.Milliseconds()/300) % 4
	dots := strings.Repeat(".", dotCount)

	var sb strings.Builder

	// Center the content vertically
	sb.WriteString("\n\n\n\n")

	// ASCII art logo
	logo := `
   ██╗    ██╗ █████╗ ██╗     ██╗     ███████╗████████╗
   ██║    ██║██╔══██╗██║     ██║     ██╔════╝╚══██╔══╝
   ██║ █╗ ██║███████║██║     ██║     █████╗     ██║
   ██║███╗██║██╔══██║██║     ██║     ██╔══╝     ██║
   ╚███╔███╔╝██║  ██║███████╗███████╗███████╗   ██║
    ╚══╝╚══╝ ╚═╝  ╚═╝╚══════╝╚══════╝╚══════╝   ╚═╝
`
	sb.WriteString(titleStyle.Render(logo))
	sb.WriteString("\n")

	// Subtitle
	subtitle := "                K E E P E R"
	sb.WriteString(mutedStyle.Render(subtitle))
	sb.WriteString("\n\n\n")

	// Tagline with gold styling
	tagline := "          🩺  Keeping balances healthy  🩺"
	sb.WriteString(goldStyle.Render(tagline))
	sb.WriteString("\n\n\n")

	// Loading indicator
	loading := fmt.Sprintf("                  Initializing%s", dots)
	sb.WriteString(greenStyle.Render(loading))
	sb.WriteString("\n\n")

	// Skip hint
	hint := "            Press any key to skip, or wait..."
	sb.WriteString(mutedStyle.Render(hint))
	sb.WriteString("\n")

	return sb.String()
}

// renderStartupScreen renders the loading/startup screen.
func (m Model) renderStartupScreen() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		MarginBottom(1)

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF"))

	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	successStyle := lipgloss.NewStyle().Foreground(ColorSecondary)
	connectingStyle := lipgloss.NewStyle().Foreground(ColorWarning)
	failedStyle := lipgloss.NewStyle().Foreground(ColorDanger)

	var sb strings.Builder

	sb.WriteString("\n\n")
	sb.WriteString(titleStyle.Render("  🩺 Wallet Keeper"))
	sb.WriteString("\n\n")
	sb.WriteString(headerStyle.Render("  Starting up..."))
	sb.WriteString("\n\n")

	// Show startup steps in order
	stepOrder := []string{"config", "ledger", "keeper"}
	for _, key := range stepOrder {
		step, ok := m.startupSteps[key]
		if !ok {
			continue
		}

		var icon, statusText string
		var style lipgloss.Style

		switch step.Status {
		case "connected", "done":
			icon = "✓"
			statusText = "Ready"
			style = successStyle
		case "connecting":
			// Animated spinner based on time
			spinners := []string{"◐", "◓", "◑", "◒"}
			idx := int(time.Since(m.startupTime).Milliseconds()/200) % len(spinners)
			icon = spinners[idx]
			statusText = "Connecting..."
			style = connectingStyle
		case "failed":
			icon = "✗"
			statusText = "Failed"
			style = failedStyle
		default:
			icon = "○"
			statusText = "Pending"
			style = mutedStyle
		}

		sb.WriteString(fmt.Sprintf("  %s %s %s\n",
			style.Render(icon),
			mutedStyle.Render(step.Name),
			style.Render(statusText),
		))
	}

	sb.WriteString("\n")
	elapsed := time.Since(m.startupTime).Round(time.Second)
	sb.WriteString(mutedStyle.Render(fmt.Sprintf("  Elapsed: %s", elapsed)))
	sb.WriteString("\n\n")

	sb.WriteString(mutedStyle.Render("  Waiting for first balance check..."))
	sb.WriteString("\n")

	return sb.String()
}

func (m Model) renderStatusBar() string {
	var parts []string

	// Chain
	if m.chainID > 0 {
		parts = append(parts, fmt.Sprintf("Chain: %d", m.chainID))
	}

	// Block number
	if m.lastBlock > 0 {
		parts = append(parts, fmt.Sprintf("Block: #%d", m.lastBlock))
	}

	// Cycle count
	if m.cyclesRun > 0 {
		cycleStyle := lipgloss.NewStyle().Foreground(ColorSecondary)
		parts = append(parts, cycleStyle.Render(fmt.Sprintf("Cycles: %d", m.cyclesRun)))
	}

	// Connection status
	for name, info := range m.connectionState {
		var statusStyle lipgloss.Style
		var icon string
		var status string
		if info != nil && info.Connected {
			statusStyle = StatusConnected
			icon = "●"
			if info.Latency > 0 {
				status = fmt.Sprintf("%s (%dms)", name, info.Latency.Milliseconds())
			} else {
				status = name
			}
		} else {
			statusStyle = StatusDisconnected
			icon = "○"
			status = name + " (disconnected)"
		}
		parts = append(parts, statusStyle.Render(icon+" "+status))
	}

	// Last update with activity indicator
	if !m.lastUpdate.IsZero() {
		ago := time.Since(m.lastUpdate).Round(time.Second)
		indicator := ""
		if ago < 2*time.Second {
			indicator = "▪" // Recent activity indicator
		}
		parts = append(parts, MutedValue.Render(fmt.Sprintf("Updated: %s ago %s", ago, indicator)))
	}

	return strings.Join(parts, "  │  ")
}

// Program holds the Bubble Tea program instance for external access.
var Program *tea.Program

// OnStartModules is called when the welcome screen completes and modules should start.
// This is set by main.go to signal when to begin loading modules.
var OnStartModules func()

// Run starts the Bubble Tea program.
func Run() error {
	Program = tea.NewProgram(New(), tea.WithAltScreen())
	_, err := Program.Run()
	return err
}

// Send sends a message to the running program.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
	// Call OnStartModules callback when StartModulesMsg is sent
	if _, ok := msg.(StartModulesMsg); ok && OnStartModules != nil {
		OnStartModules()
	}
}
