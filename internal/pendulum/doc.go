// Package pendulum models a planar double pendulum: two point-mass bobs on
// massless rigid arms, the first hinged at a fixed pivot.
//
// Angles are measured from the downward vertical, counter-clockwise
// positive. The equations of motion are exposed as pure functions of an
// explicit [State] through [Params], so multi-stage integrators can
// evaluate them away from the pendulum's stored state.
//
//	p, err := pendulum.New(1, 1, 1, 1, math.Pi/2, math.Pi/2)
//	if err != nil {
//	    return err
//	}
//	if err := p.Update(0, 10, 0.001, integrators.RK4); err != nil {
//	    return err
//	}
//	drift := p.TotalEnergy() - p.PotentialEnergyMax()
package pendulum
