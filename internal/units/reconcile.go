package units

import (
	"github.com/google/uuid"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
	"github.com/enplussmartenergy/erp-sub001/internal/normalisers/document"
)

// Reconcile maps previous units onto the desired identities.
//
// Pass 1 gives each identity an unused previous unit with the same kind and
// number. Pass 2 gives each still unmatched identity the first unused
// previous unit of the same kind, renumbered. Remaining identities get a
// fresh unit from the template; unused previous units are dropped.
//
// The result has one unit per identity, in identity order. previous is not
// modified.
func Reconcile(tpl *domain.UnitTemplate, desired []Identity, previous []domain.Unit, newID func() string) []domain.Unit {
	if newID == nil {
		newID = uuid.NewString
	}
	out := make([]domain.Unit, len(desired))
	matched := make([]bool, len(desired))
	used := make([]bool, len(previous))

	for i, want := range desired {
		for j, prev := range previous {
			if used[j] || prev.Kind != want.Kind || prev.No != want.No {
				continue
			}
			out[i] = prev.Clone()
			matched[i], used[j] = true, true
			break
		}
	}

	for i, want := range desired {
		if matched[i] {
			continue
		}
		for j, prev := range previous {
			if used[j] || prev.Kind != want.Kind {
				continue
			}
			u := prev.Clone()
			u.No = want.No
			out[i] = u
			matched[i], used[j] = true, true
			break
		}
	}

	for i, want := range desired {
		if matched[i] {
			continue
		}
		if tpl == nil {
			tpl = &domain.UnitTemplate{}
		}
		out[i] = document.NewUnit(tpl, newID(), want.Kind, want.No)
	}
	return out
}
