package bank

import (
	"fmt"

	"github.com/banshee-data/hexbank/internal/bank/classify"
	"github.com/banshee-data/hexbank/internal/monitoring"
)

// assemble corrects cells left below the equal-mass line and emits the
// cells that end up inside the region, numbered densely in cell order.
func (b *builder) assemble() ([]Template, error) {
	if n := b.store.State().Fertile; n != 0 {
		return nil, fmt.Errorf("%w: %d fertile cells remain after growth", ErrInternal, n)
	}

	for id := 0; id < b.store.Len(); id++ {
		if b.store.Get(id).Position != classify.Below {
			continue
		}
		if err := b.correct(id); err != nil {
			return nil, err
		}
	}

	var out []Template
	for _, c := range b.store.Cells() {
		if classify.Aggregate(c.Position, c.Corners) != classify.In || !(c.Pos.T0 > 0) {
			continue
		}
		if b.region.Classify(c.Pos) != classify.In {
			continue
		}
		par, ok := b.bound.Coeffs.Params(c.Pos)
		if !ok {
			continue
		}
		out = append(out, Template{
			ID:        len(out),
			T0:        c.Pos.T0,
			T3:        c.Pos.T3,
			Mass1:     par.Mass1,
			Mass2:     par.Mass2,
			TotalMass: par.TotalMass,
			Eta:       par.Eta,
			ChirpMass: par.ChirpMass,
			Ellipse:   c.Ellipse,
		})
	}
	return out, nil
}

// correct projects a cell below the equal-mass line onto it along its
// heading, or its major axis when it has none, then refreshes its ellipse
// and classification.
func (b *builder) correct(id int) error {
	c := b.store.Get(id)
	theta, reach := c.Ellipse.Theta, c.Ellipse.A
	if c.Reach > 0 {
		theta, reach = c.Heading, c.Reach
	}
	p, err := b.snap(c.Pos, theta, reach, b.bound.Lower)
	if err != nil {
		return fmt.Errorf("bank: correcting cell %d: %w", id, err)
	}
	if !(p.T0 > 0) {
		monitoring.Logf("warning: bank: corrected cell %d has t0 %g <= 0, dropping it", id, p.T0)
		c.Position = classify.Out
		return nil
	}

	e, err := b.ellipseAt(p)
	if err != nil {
		return err
	}
	c.Pos, c.Ellipse = p, e
	c.Snapped = true
	b.classifyCell(c)
	c.Position = classify.Aggregate(c.Position, c.Corners)
	b.stats.Corrected++
	return nil
}
