package usecase

import (
	"sort"
	"strings"

	"github.com/xavierca1/prospection-crm/internal/entity"
)

type SortField string

const (
	SortByNom           SortField = "nom"
	SortByEntreprise    SortField = "entreprise"
	SortByValeurEstimee SortField = "valeurEstimee"
	SortByStatus        SortField = "status"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

func ParseSortField(s string) (SortField, bool) {
	switch f := SortField(s); f {
	case SortByNom, SortByEntreprise, SortByValeurEstimee, SortByStatus:
		return f, true
	}
	return "", false
}

func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(s, string(SortDesc)) {
		return SortDesc
	}
	return SortAsc
}

// SortProspects returns a sorted copy; strings compare case-insensitively
// and a missing estimated value counts as zero.
func SortProspects(items []entity.Prospect, field SortField, order SortOrder) []entity.Prospect {
	out := make([]entity.Prospect, len(items))
	copy(out, items)

	less := func(a, b entity.Prospect) bool {
		switch field {
		case SortByEntreprise:
			return strings.ToLower(a.Entreprise) < strings.ToLower(b.Entreprise)
		case SortByValeurEstimee:
			return valueOrZero(a.ValeurEstimee) < valueOrZero(b.ValeurEstimee)
		case SortByStatus:
			return string(a.Status) < string(b.Status)
		default:
			return strings.ToLower(a.Nom) < strings.ToLower(b.Nom)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if order == SortDesc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

type Stats struct {
	Total         int                           `json:"total"`
	Nouveaux      int                           `json:"nouveaux"`
	Conclus       int                           `json:"conclus"`
	ByStatus      map[entity.ProspectStatus]int `json:"byStatus"`
	PipelineValue float64                       `json:"pipelineValue"`
}

// ComputeStats feeds the dashboard counters. The pipeline value ignores
// lost prospects.
func ComputeStats(items []entity.Prospect) Stats {
	st := Stats{
		Total:    len(items),
		ByStatus: make(map[entity.ProspectStatus]int, len(entity.PipelineStatuses)),
	}
	for _, s := range entity.PipelineStatuses {
		st.ByStatus[s] = 0
	}
	for _, p := range items {
		st.ByStatus[p.Status]++
		if p.Status != entity.StatusPerdu {
			st.PipelineValue += valueOrZero(p.ValeurEstimee)
		}
	}
	st.Nouveaux = st.ByStatus[entity.StatusNouveau]
	st.Conclus = st.ByStatus[entity.StatusConclu]
	return st
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
