package integrators

// RK4Step advances x by one classic fourth-order Runge-Kutta step.
func RK4Step[S Vector[S]](f Derivative[S], x S, h float64) S {
	k1 := f(x)
	k2 := f(x.Add(k1.Scale(h * 0.5)))
	k3 := f(x.Add(k2.Scale(h * 0.5)))
	k4 := f(x.Add(k3.Scale(h)))

	sum := k1.Add(k2.Scale(2)).Add(k3.Scale(2)).Add(k4)
	return x.Add(sum.Scale(h / 6.0))
}

// RK38Step advances x by one step of the Runge-Kutta 3/8 rule. Same order
// as RK4 with a smaller error constant, at the cost of one extra combination.
func RK38Step[S Vector[S]](f Derivative[S], x S, h float64) S {
	k1 := f(x)
	k2 := f(x.Add(k1.Scale(h / 3.0)))
	k3 := f(x.Add(k1.Scale(-1.0 / 3.0).Add(k2).Scale(h)))
	k4 := f(x.Add(k1.Add(k2.Scale(-1)).Add(k3).Scale(h)))

	sum := k1.Add(k2.Scale(3)).Add(k3.Scale(3)).Add(k4)
	return x.Add(sum.Scale(h / 8.0))
}
