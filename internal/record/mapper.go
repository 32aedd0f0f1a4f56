package record

import (
	"time"

	"github.com/xavierca1/prospection-crm/internal/entity"
)

// ToDomain converts a stored prospect, including its nested interactions,
// into the domain shape. Interaction order is preserved as received.
func ToDomain(r ProspectRecord) entity.Prospect {
	p := entity.Prospect{
		ID:           r.ID,
		Nom:          r.Nom,
		Entreprise:   r.Entreprise,
		Email:        r.Email,
		Telephone:    r.Telephone,
		Adresse:      r.Adresse,
		Status:       entity.ProspectStatus(r.Status),
		DateCreation: r.DateCreation,
		Interactions: make([]entity.Interaction, 0, len(r.Interactions)),
	}
	if r.ValeurEstimee != nil {
		v := *r.ValeurEstimee
		p.ValeurEstimee = &v
	}
	for _, ir := range r.Interactions {
		p.Interactions = append(p.Interactions, InteractionToDomain(ir))
	}
	return p
}

func InteractionToDomain(r InteractionRecord) entity.Interaction {
	i := entity.Interaction{
		ID:    r.ID,
		Type:  entity.InteractionType(r.Type),
		Date:  r.Date,
		Notes: r.Notes,
	}
	if r.Duree != nil {
		d := *r.Duree
		i.Duree = &d
	}
	return i
}

// ToStorage emits only the columns present in the patch. A cleared
// ValeurEstimee becomes an explicit nil.
func ToStorage(p entity.ProspectPatch) Fields {
	f := Fields{}
	if p.Nom != nil {
		f[ColNom] = *p.Nom
	}
	if p.Entreprise != nil {
		f[ColEntreprise] = *p.Entreprise
	}
	if p.Email != nil {
		f[ColEmail] = *p.Email
	}
	if p.Telephone != nil {
		f[ColTelephone] = *p.Telephone
	}
	if p.Adresse != nil {
		f[ColAdresse] = *p.Adresse
	}
	if p.Status != nil {
		f[ColStatus] = string(*p.Status)
	}
	if p.ValeurEstimee.Present {
		if p.ValeurEstimee.Value == nil {
			f[ColValeurEstimee] = nil
		} else {
			f[ColValeurEstimee] = *p.ValeurEstimee.Value
		}
	}
	return f
}

// NewProspectFields builds the insert row. date_creation is left to the
// backend default unless the caller supplied one.
func NewProspectFields(in entity.NewProspect) Fields {
	status := in.Status
	if status == "" {
		status = entity.StatusNouveau
	}
	f := ToStorage(entity.ProspectPatch{
		Nom:           &in.Nom,
		Entreprise:    &in.Entreprise,
		Email:         &in.Email,
		Telephone:     &in.Telephone,
		Adresse:       &in.Adresse,
		Status:        &status,
		ValeurEstimee: optionalFromPtr(in.ValeurEstimee),
	})
	if in.DateCreation != nil {
		f[ColDateCreation] = in.DateCreation.UTC()
	}
	return f
}

// InteractionFields builds the insert row for an interaction, foreign key
// included.
func InteractionFields(prospectID string, in entity.NewInteraction) Fields {
	f := Fields{
		ColProspectID: prospectID,
		ColType:       string(in.Type),
		ColDate:       in.Date.UTC(),
		ColNotes:      in.Notes,
		ColDuree:      nil,
	}
	if in.Duree != nil {
		f[ColDuree] = *in.Duree
	}
	return f
}

func optionalFromPtr(v *float64) entity.Optional[float64] {
	if v == nil {
		return entity.Clear[float64]()
	}
	return entity.Set(*v)
}

// NewInteractionRecord builds the stored row for an interaction insert, for
// backends that assemble rows themselves.
func NewInteractionRecord(id string, f Fields) InteractionRecord {
	r := InteractionRecord{ID: id}
	r.ProspectID = stringValue(f[ColProspectID])
	r.Type = stringValue(f[ColType])
	r.Notes = stringValue(f[ColNotes])
	if t, ok := f[ColDate].(time.Time); ok {
		r.Date = t
	}
	if d, ok := f[ColDuree].(int); ok {
		r.Duree = &d
	}
	return r
}
