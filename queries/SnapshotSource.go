package queries

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/reaandrew/vmlint/core"
)

// SnapshotSource serves instances and serial console lines from an offline
// snapshot directory:
//
//	<dir>/instances.yaml      inventory of the project's instances
//	<dir>/serial/<name>.log   serial port output, one line per entry
//
// Snapshots are produced by whatever export tooling the platform offers;
// vmlint only consumes them, which keeps a diagnosis runnable without any
// API access to the project.
type SnapshotSource struct {
	dir      string
	manifest snapshotManifest
}

type snapshotManifest struct {
	Project                 string             `yaml:"project"`
	SerialPortOutputEnabled *bool              `yaml:"serial_port_output_enabled"`
	Instances               []snapshotInstance `yaml:"instances"`
}

type snapshotInstance struct {
	ID     string            `yaml:"id"`
	Name   string            `yaml:"name"`
	Zone   string            `yaml:"zone"`
	Labels map[string]string `yaml:"labels"`
}

// NewSnapshotSource reads and validates the snapshot inventory. The serial
// logs themselves are only opened when a rule asks for them.
func NewSnapshotSource(dir string) (*SnapshotSource, error) {
	data, err := os.ReadFile(filepath.Join(dir, "instances.yaml"))
	if err != nil {
		return nil, fmt.Errorf("reading snapshot inventory: %w", err)
	}

	var manifest snapshotManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing snapshot inventory: %w", err)
	}
	if manifest.Project == "" {
		return nil, fmt.Errorf("%w: snapshot inventory names no project", core.ErrConfiguration)
	}
	for _, instance := range manifest.Instances {
		if instance.ID == "" || instance.Name == "" {
			return nil, fmt.Errorf("%w: snapshot instances need both an id and a name", core.ErrConfiguration)
		}
	}

	return &SnapshotSource{dir: dir, manifest: manifest}, nil
}

// ProjectID returns the project recorded in the snapshot inventory.
func (s *SnapshotSource) ProjectID() string {
	return s.manifest.Project
}

// Instances implements InstanceSource over the snapshot inventory, applying
// the run scope's name and label filters.
func (s *SnapshotSource) Instances(ctx context.Context, rc *core.RunContext) (map[string]core.Instance, error) {
	instances := make(map[string]core.Instance)
	for _, raw := range s.manifest.Instances {
		instance := core.Instance{ID: raw.ID, Name: raw.Name, Zone: raw.Zone, Labels: raw.Labels}
		if rc.InScope(instance) {
			instances[instance.ID] = instance
		}
	}
	return instances, nil
}

// SerialOutputAvailable implements AvailabilityProbe. Snapshots taken from
// projects with serial logging disabled record that fact in the inventory.
func (s *SnapshotSource) SerialOutputAvailable(ctx context.Context, rc *core.RunContext) (bool, error) {
	if s.manifest.SerialPortOutputEnabled == nil {
		return true, nil
	}
	return *s.manifest.SerialPortOutputEnabled, nil
}

// Entries implements search.LogLineSource. The filter expression is
// ignored: snapshot logs are already on local disk, so there is no fetch
// volume left to save.
func (s *SnapshotSource) Entries(ctx context.Context, rc *core.RunContext, filter string) (map[string][]core.LogEntry, error) {
	available, err := s.SerialOutputAvailable(ctx, rc)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, fmt.Errorf("snapshot %s: %w", s.dir, core.ErrSerialUnavailable)
	}

	instances, err := s.Instances(ctx, rc)
	if err != nil {
		return nil, err
	}

	entries := make(map[string][]core.LogEntry, len(instances))
	for _, instance := range instances {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lines, err := readSerialLog(filepath.Join(s.dir, "serial", instance.Name+".log"))
		if errors.Is(err, os.ErrNotExist) {
			// An instance without a dump simply produced no serial output
			// while the snapshot was taken.
			log.Debugf("snapshot has no serial log for instance %s", instance.Name)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading serial log of %s: %w", instance.Name, err)
		}
		entries[instance.ID] = lines
	}
	return entries, nil
}

// syslogPrefix matches the classic "Mon DD HH:MM:SS" stamp most daemons
// still write to the console.
var syslogPrefix = regexp.MustCompile(`^([A-Z][a-z]{2}\s+\d{1,2}\s+\d{2}:\d{2}:\d{2})\s+(.*)$`)

func readSerialLog(path string) ([]core.LogEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var entries []core.LogEntry
	var lastSeen time.Time

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		entry := parseLogLine(line, lastSeen)
		lastSeen = entry.Timestamp
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// parseLogLine extracts the wall-clock timestamp from a serial console
// line. Journald exports stamp lines with RFC 3339; older daemons use the
// syslog format. Lines without their own wall-clock stamp, such as kernel
// "[ 12.345678]" uptime prefixes, inherit the last timestamp seen so that
// ordering survives.
func parseLogLine(line string, lastSeen time.Time) core.LogEntry {
	if i := strings.IndexByte(line, ' '); i > 0 {
		if ts, err := time.Parse(time.RFC3339Nano, line[:i]); err == nil {
			return core.LogEntry{Timestamp: ts, Text: strings.TrimSpace(line[i+1:])}
		}
	}

	if m := syslogPrefix.FindStringSubmatch(line); m != nil {
		if parsed, err := dateparser.Parse(nil, m[1]); err == nil {
			return core.LogEntry{Timestamp: parsed.Time, Text: m[2]}
		}
	}

	return core.LogEntry{Timestamp: lastSeen, Text: line}
}
