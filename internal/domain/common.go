package domain

import "time"

// Statistics - агрегированная статистика справочника для админки
type Statistics struct {
	Total       int64            `json:"total"`
	Verified    int64            `json:"verified"`
	ByStatus    map[string]int64 `json:"byStatus"`
	ByCategory  map[string]int64 `json:"byCategory"`
	LastUpdated time.Time        `json:"lastUpdated"`
}
