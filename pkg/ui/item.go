package ui

import (
	"fmt"
	"strings"

	"github.com/Dicklesworthstone/orgnet/pkg/analysis"
	"github.com/Dicklesworthstone/orgnet/pkg/model"
)

// PersonItem wraps a person and their metrics to implement list.Item.
type PersonItem struct {
	Person    model.Person
	Metrics   analysis.Metrics
	Influence float64
	Rank      int
}

func (i PersonItem) Title() string {
	return i.Person.ID
}

func (i PersonItem) Description() string {
	return fmt.Sprintf("%s • %s • influence %.3f",
		i.Person.Role, i.Person.DepartmentOrUnknown(), i.Influence)
}

// FilterValue lets "/" match on id, role, department, and expertise.
func (i PersonItem) FilterValue() string {
	var sb strings.Builder
	sb.WriteString(i.Person.ID)
	sb.WriteString(" ")
	sb.WriteString(i.Person.Role)
	sb.WriteString(" ")
	sb.WriteString(i.Person.DepartmentOrUnknown())
	if len(i.Person.ExpertiseAreas) > 0 {
		sb.WriteString(" ")
		sb.WriteString(strings.Join(i.Person.ExpertiseAreas, " "))
	}
	return sb.String()
}
