package handler

import (
	"strings"

	"site-cost-bot/internal/report"
)

// parseFilterArgs разбирает аргументы вида "from=2024-03-01 projects=1,2".
// Неизвестные ключи и слова без "=" пропускаются.
func parseFilterArgs(args string) report.RawFilter {
	var raw report.RawFilter
	for _, field := range strings.Fields(args) {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		switch strings.ToLower(key) {
		case "from":
			raw.From = value
		case "to":
			raw.To = value
		case "projects", "project":
			raw.ProjectIDs = append(raw.ProjectIDs, value)
		case "phases", "phase":
			raw.PhaseIDs = append(raw.PhaseIDs, value)
		case "tasks", "task":
			raw.TaskIDs = append(raw.TaskIDs, value)
		case "workers", "worker":
			raw.WorkerIDs = append(raw.WorkerIDs, value)
		case "currency":
			raw.Currency = value
		}
	}
	return raw
}
