package model

import (
	"bytes"
	"encoding/json"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

const (
	DefaultPage   = 1
	DefaultLimit  = 10
	DefaultSortBy = "id"
)

// Query describes one list request. Zero values mean "not set".
type Query struct {
	Search    string
	Status    Status
	Priority  Priority
	GroupBy   string
	SortBy    string
	SortOrder SortOrder
	Page      int
	Limit     int
}

type PageMeta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

type Page struct {
	Data []Todo   `json:"data"`
	Meta PageMeta `json:"meta"`
}

type GroupMeta struct {
	GroupBy string `json:"groupBy"`
	Total   int    `json:"total"`
	Groups  int    `json:"groups"`
}

type Grouped struct {
	Grouped Groups    `json:"grouped"`
	Meta    GroupMeta `json:"meta"`
}

// Groups keeps buckets in the order their keys were first seen.
type Groups struct {
	Keys    []string
	Buckets map[string][]Todo
}

func (g *Groups) Add(key string, t Todo) {
	if g.Buckets == nil {
		g.Buckets = make(map[string][]Todo)
	}
	if _, ok := g.Buckets[key]; !ok {
		g.Keys = append(g.Keys, key)
	}
	g.Buckets[key] = append(g.Buckets[key], t)
}

func (g Groups) Len() int { return len(g.Keys) }

func (g Groups) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range g.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		items, err := json.Marshal(g.Buckets[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(items)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (g *Groups) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return err
	}
	*g = Groups{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var items []Todo
		if err := dec.Decode(&items); err != nil {
			return err
		}
		for _, t := range items {
			g.Add(key, t)
		}
	}
	return nil
}

type Averages struct {
	TitleLength       string `json:"titleLength"`
	DescriptionLength string `json:"descriptionLength"`
}

type Stats struct {
	Total          int            `json:"total"`
	ByStatus       map[string]int `json:"byStatus"`
	ByPriority     map[string]int `json:"byPriority"`
	Averages       Averages       `json:"averages"`
	CompletionRate string         `json:"completionRate"`
}
