package domain

type GroupBy string

const (
	GroupByStatus   GroupBy = "status"
	GroupByTopic    GroupBy = "topic"
	GroupByAssignee GroupBy = "assignee"
)

const UnspecifiedTopic = "Unspecified"

func ParseGroupBy(s string) (GroupBy, error) {
	switch g := GroupBy(s); g {
	case GroupByStatus, GroupByTopic, GroupByAssignee:
		return g, nil
	}
	return "", ErrInvalidGroupBy
}

type GroupCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type Report struct {
	GroupBy GroupBy      `json:"group_by"`
	Total   int          `json:"total"`
	Data    []GroupCount `json:"data"`
	Chart   []byte       `json:"-"`
}
