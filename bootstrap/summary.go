package bootstrap

import (
	"fmt"
	"io"
	"strings"

	"github.com/kbukum/svcreg/config"
	"github.com/kbukum/svcreg/di"
	"github.com/kbukum/svcreg/util"
)

// Summary describes the contents of a registry for display at startup.
type Summary struct {
	serviceName string
	version     string
	environment string
	services    []di.RegistrationInfo
	tags        map[string][]string
}

// NewSummary captures the current registrations of r.
func NewSummary(cfg *config.Config, r *di.Registry) *Summary {
	s := &Summary{
		services: r.Registrations(),
		tags:     make(map[string][]string),
	}
	if cfg != nil {
		s.serviceName = cfg.Name
		s.version = cfg.Version
		s.environment = cfg.Environment
	}
	for _, info := range s.services {
		for _, tag := range info.Tags {
			s.tags[tag] = r.KeysByTag(tag)
		}
	}
	return s
}

// Write renders the summary as a tree.
func (s *Summary) Write(w io.Writer) error {
	var b strings.Builder

	header := s.serviceName
	if header == "" {
		header = "svcreg"
	}
	if s.version != "" {
		header += " v" + s.version
	}
	if s.environment != "" {
		header += " (" + s.environment + ")"
	}
	fmt.Fprintf(&b, "🚀 %s\n\n", header)

	fmt.Fprintf(&b, "📦 Services (%d)\n", len(s.services))
	if len(s.services) == 0 {
		b.WriteString("   └── No services registered\n")
	}
	for i, info := range s.services {
		fmt.Fprintf(&b, "   %s %s %s [%s]", branch(i, len(s.services)), statusIcon(info), info.Key, status(info))
		if len(info.Tags) > 0 {
			fmt.Fprintf(&b, " #%s", strings.Join(info.Tags, " #"))
		}
		b.WriteString("\n")
	}

	if len(s.tags) > 0 {
		tags := util.SortedKeys(s.tags)
		fmt.Fprintf(&b, "\n🏷️  Tags (%d)\n", len(tags))
		for i, tag := range tags {
			fmt.Fprintf(&b, "   %s %s: %s\n", branch(i, len(tags)), tag, strings.Join(s.tags[tag], ", "))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func branch(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func status(info di.RegistrationInfo) string {
	switch {
	case info.Mode == di.ModeValue:
		return "value"
	case info.Initialized:
		return "factory, initialized"
	default:
		return "factory, lazy"
	}
}

func statusIcon(info di.RegistrationInfo) string {
	if info.Mode == di.ModeFactory && !info.Initialized {
		return "⚡"
	}
	return "✅"
}
