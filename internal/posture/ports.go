package posture

import (
	"regexp"
	"strconv"
	"strings"
)

// PortFormat selects which native listing layout ParsePorts expects.
type PortFormat int

const (
	// FormatLsof is the BSD/macOS process-first layout produced by
	// `lsof -nP -iTCP -sTCP:LISTEN`.
	FormatLsof PortFormat = iota
	// FormatSS is the Linux state-first layout produced by `ss -tlnp`.
	FormatSS
)

var (
	trailingPortRe = regexp.MustCompile(`:(\d+)$`)
	ssProcessRe    = regexp.MustCompile(`\("([^"]+)",pid=(\d+)`)
)

// ParsePorts extracts listening TCP port records from raw command output.
// Header lines and lines too short for the format are skipped silently.
// A port seen earlier in the scan is never re-added, even if pid or process
// differ on a later line; native output repeats ports once per IP family.
// Empty or header-only input yields an empty set, never an error.
func ParsePorts(raw string, format PortFormat) []PortRecord {
	var records []PortRecord
	seen := make(map[int]bool)

	for _, line := range strings.Split(raw, "\n") {
		var rec *PortRecord
		switch format {
		case FormatLsof:
			rec = parseLsofLine(line)
		case FormatSS:
			rec = parseSSLine(line)
		}
		if rec == nil || seen[rec.Port] {
			continue
		}
		seen[rec.Port] = true
		records = append(records, *rec)
	}
	return records
}

// parseLsofLine handles the process-first layout: process name is the first
// field, pid the second, and the listening address is the last field ending
// in ":<port>". A trailing "(LISTEN)" state marker is tolerated.
func parseLsofLine(line string) *PortRecord {
	fields := strings.Fields(line)
	if len(fields) > 0 && fields[len(fields)-1] == "(LISTEN)" {
		fields = fields[:len(fields)-1]
	}
	if len(fields) < 2 {
		return nil
	}
	if strings.HasPrefix(fields[0], "COMMAND") {
		return nil // header
	}

	m := trailingPortRe.FindStringSubmatch(fields[len(fields)-1])
	if m == nil {
		return nil
	}
	port, err := strconv.Atoi(m[1])
	if err != nil || port < 1 || port > 65535 {
		return nil
	}

	rec := &PortRecord{Port: port, Process: fields[0]}
	if pid, err := strconv.Atoi(fields[1]); err == nil {
		rec.PID = &pid
	}
	return rec
}

// parseSSLine handles the state-first layout: the local address:port is the
// 4th field, and process identity comes from a trailing ("name",pid=N
// descriptor. Without the descriptor the record is kept with process
// "unknown" and no pid.
func parseSSLine(line string) *PortRecord {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return nil
	}
	if strings.HasPrefix(fields[0], "State") {
		return nil // header
	}

	m := trailingPortRe.FindStringSubmatch(fields[3])
	if m == nil {
		return nil
	}
	port, err := strconv.Atoi(m[1])
	if err != nil || port < 1 || port > 65535 {
		return nil
	}

	rec := &PortRecord{Port: port, Process: "unknown"}
	if pm := ssProcessRe.FindStringSubmatch(line); pm != nil {
		rec.Process = pm[1]
		if pid, err := strconv.Atoi(pm[2]); err == nil {
			rec.PID = &pid
		}
	}
	return rec
}
