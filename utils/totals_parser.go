package utils

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Aashish23092/agent-ranking-parser/dto"
)

const (
	sectionPrefix = "Production for "
	totalPrefix   = "Total "
)

type parserState int

const (
	awaitingSection parserState = iota
	inSection
)

// ParseTotals scans report text for "Production for <Agent>" sections and
// reads the "Total <count> $<list> $<sold>" line that closes each one.
// Records come back in the order their sections appear.
func ParseTotals(text string) []dto.AgentTotal {
	records := []dto.AgentTotal{}
	state := awaitingSection
	agent := ""

	for _, line := range splitLines(text) {
		if strings.HasPrefix(line, sectionPrefix) {
			if state == inSection {
				slog.Debug("section abandoned without total line", "agent", agent)
			}
			agent = strings.TrimSpace(strings.TrimPrefix(line, sectionPrefix))
			state = inSection
			if agent == "" {
				// a header without a name opens no section
				state = awaitingSection
			}
			continue
		}

		if state != inSection || !strings.HasPrefix(strings.TrimSpace(line), totalPrefix) {
			continue
		}

		if record, ok := parseTotalLine(agent, line); ok {
			records = append(records, record)
		} else {
			slog.Debug("dropping malformed total line", "agent", agent, "line", line)
		}
		agent = ""
		state = awaitingSection
	}

	return records
}

// splitLines breaks text on every line boundary a text layer may carry: \n,
// \r\n, a lone \r, form feeds and the other Unicode separators.
func splitLines(text string) []string {
	var lines []string
	for len(text) > 0 {
		i := strings.IndexFunc(text, isLineBreak)
		if i < 0 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:i])
		r, size := utf8.DecodeRuneInString(text[i:])
		text = text[i+size:]
		if r == '\r' && strings.HasPrefix(text, "\n") {
			text = text[1:]
		}
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// parseTotalLine reads token[1] as the transaction count and token[3] as the
// sold volume, e.g. "Total 12 $500,000 $7,947,900".
func parseTotalLine(agent, line string) (dto.AgentTotal, bool) {
	parts := strings.Fields(line)
	if len(parts) < 4 {
		return dto.AgentTotal{}, false
	}

	count, err := strconv.Atoi(parts[1])
	if err != nil || count < 0 {
		return dto.AgentTotal{}, false
	}

	volume, ok := parseDollars(parts[3])
	if !ok {
		return dto.AgentTotal{}, false
	}

	return dto.AgentTotal{Agent: agent, Transactions: count, SoldVolume: volume}, true
}

// parseDollars accepts whole-dollar amounts like "$7,947,900". Cents are rejected.
func parseDollars(token string) (int64, bool) {
	digits := strings.ReplaceAll(strings.ReplaceAll(token, "$", ""), ",", "")
	if digits == "" {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// BuildRankedTable cleans every agent name, applies the fix table once and
// sorts by sold volume, highest first. Ties keep their original order.
func BuildRankedTable(records []dto.AgentTotal, fixes dto.NameFixes) dto.RankedTable {
	table := make(dto.RankedTable, 0, len(records))
	for _, r := range records {
		r.Agent = ApplyNameFix(CleanName(r.Agent), fixes)
		table = append(table, r)
	}

	sort.SliceStable(table, func(i, j int) bool {
		return table[i].SoldVolume > table[j].SoldVolume
	})
	return table
}

// RankTotals runs ParseTotals and BuildRankedTable over one document's text
func RankTotals(text string, fixes dto.NameFixes) dto.RankedTable {
	return BuildRankedTable(ParseTotals(text), fixes)
}
