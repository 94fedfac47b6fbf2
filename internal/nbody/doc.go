// Package nbody simulates softened Newtonian gravity in the plane.
//
// Bodies are stored as parallel slices of masses, positions and velocities.
// Accelerations are computed by direct pairwise summation, or by a
// Barnes-Hut tree when a positive opening angle is configured:
//
//	sys, err := nbody.NewSystem(masses, positions, velocities,
//		nbody.WithSoftening(5), nbody.WithStepSize(0.01))
//	if err != nil {
//		return err
//	}
//	for i := 0; i < 1000; i++ {
//		if err := sys.Tick(); err != nil {
//			return err
//		}
//	}
//
// Masses are expected to already include the gravitational constant.
package nbody
