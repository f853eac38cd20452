package effects

import "math"

// modelState is the per-channel memory used by the stateful models.
type modelState struct {
	prev       float64
	hysteresis float64
}

func (s *modelState) reset() {
	s.prev = 0
	s.hysteresis = 0
}

// applyModel evaluates one model. Every model clamps its own input and
// returns a value in [-1, 1] for finite x.
func applyModel(m Model, x float64, st *modelState) float64 {
	var y float64

	switch m {
	case ModelTube:
		y = tubeCurve(x)
	case ModelTransistor:
		y = transistorCurve(x)
	case ModelTransformer:
		y = transformerCurve(x, st)
	case ModelTape:
		y = tapeCurve(x)
	case ModelDiode:
		y = diodeCurve(x)
	case ModelVintage:
		y = vintageCurve(x)
	case ModelWarm:
		y = warmCurve(x)
	case ModelBright:
		y = brightCurve(x)
	case ModelFuzzBox:
		y = fuzzCurve(x)
	case ModelOverdrive:
		y = overdriveCurve(x)
	case ModelTube12AX7:
		y = triodeCurve(x, st)
	default:
		y = x
	}

	return limitUnit(y)
}

func tubeCurve(x float64) float64 {
	x = limitSym(x, 3)

	ax := math.Abs(x)
	if ax < 0.7 {
		return x
	}

	y := 0.7 + 0.3*math.Tanh((ax-0.7)*2) +
		0.05*math.Sin(2*math.Pi*ax) +
		0.02*math.Sin(3*math.Pi*ax)

	return math.Copysign(y, x)
}

func transistorCurve(x float64) float64 {
	x = limitSym(x, 2)

	y := x
	if ax := math.Abs(x); ax > 0.5 {
		y = math.Copysign(0.5+0.5*math.Tanh(2*(ax-0.5)), x)
		y *= 1 + 0.1*(1-math.Abs(y))
	}

	y += 0.03 * x * x * x

	return limitUnit(y)
}

func transformerCurve(x float64, st *modelState) float64 {
	x = limitSym(x, 2)

	st.hysteresis += (x - st.prev) * 0.3
	st.hysteresis *= 0.95

	y := math.Tanh(1.5*x+0.2*st.hysteresis) +
		0.02*math.Sin(2*math.Pi*x) +
		0.01*math.Sin(4*math.Pi*x)

	st.prev = x

	return y
}

func tapeCurve(x float64) float64 {
	x = limitSym(x, 1.5)

	y := x - 0.15*x*x*x
	if ax := math.Abs(x); ax > 0.7 {
		y = math.Copysign(0.7+0.3*math.Tanh(3*(ax-0.7)), x)
	}

	y *= 1 - 0.2*math.Abs(y)
	y += 0.01 * math.Sin(1.5*math.Pi*x)

	return y
}

func diodeCurve(x float64) float64 {
	x = limitSym(x, 2)

	switch {
	case x > 0.3:
		x = 0.3 + math.Tanh((x-0.3)*3)*0.5
	case x < -0.36:
		x = -0.36 + math.Tanh((x+0.36)*2)*0.6
	}

	x += 0.02 * x * x

	return limitUnit(x)
}

func vintageCurve(x float64) float64 {
	x = limitSym(x, 2)

	y := math.Tanh(1.2*x) +
		0.08*math.Sin(2*math.Pi*x) +
		0.04*math.Sin(3*math.Pi*x) +
		0.02*math.Sin(5*math.Pi*x)
	y *= 1 - 0.1*math.Abs(x)

	return 0.8 * y
}

func warmCurve(x float64) float64 {
	x = limitSym(x, 1.8)

	x2 := x * x
	y := x - 0.33*x2*x + 0.06*x2 + 0.03*x2*x2

	if ay := math.Abs(y); ay > 0.9 {
		y = math.Copysign(0.9+0.1*math.Tanh(5*(ay-0.9)), y)
	}

	return y
}

func brightCurve(x float64) float64 {
	x = limitSym(x, 2.2)

	y := math.Atanh(limitSym(0.7*x, 0.95))*1.2 +
		0.1*math.Sin(3*math.Pi*x) +
		0.05*math.Sin(5*math.Pi*x) +
		0.025*math.Sin(7*math.Pi*x)
	y *= 1 + 0.2*math.Abs(x)

	return limitUnit(y)
}

func fuzzCurve(x float64) float64 {
	x = limitSym(x, 3)

	y := 2 * x
	switch {
	case y > 1:
		y = 1 - 0.2*math.Exp(-(y-1)*3)
	case y < -1:
		y = -1 + 0.2*math.Exp((y+1)*3)
	}

	// Square-wave component; zero counts as negative.
	if y > 0 {
		y += 0.15
	} else {
		y -= 0.15
	}

	y = math.Round(y*32) / 32

	return limitUnit(0.7 * y)
}

func overdriveCurve(x float64) float64 {
	x = limitSym(x, 2.5)

	y := x
	switch {
	case x > 0.5:
		y = 0.5 + 0.5*math.Tanh(2*(x-0.5))
	case x < -0.7:
		y = -0.7 + 0.3*math.Tanh(1.5*(x+0.7))
	}

	y += 0.1*x*x*x + 0.05*x*x
	y /= 1 + 0.3*math.Abs(y)

	return y
}

// triodeCurve models a 12AX7 stage. st.prev holds this channel's previous
// output.
func triodeCurve(x float64, st *modelState) float64 {
	x = limitSym(x, 4)

	pe := x + 0.1*(x-st.prev)

	var grid float64
	if pe > 0.3 {
		grid = 0.15 * math.Tanh((pe-0.3)*3)
		pe -= grid
	}

	var y float64
	if pe >= 0 {
		y = math.Tanh(pe * (1 + 0.5*pe))
		y /= 1 + 0.2*y
	} else {
		y = math.Tanh(pe * (1 - 0.3*pe) * 1.2)
	}

	y += (0.12*math.Sin(math.Pi*pe) +
		0.08*math.Sin(3*math.Pi*pe) +
		0.03*math.Sin(5*math.Pi*pe)) * (1 - math.Abs(y))

	// Miller smoothing against the previous output.
	m := 0.95 + 0.05*(1-math.Abs(y))
	y = y*m + st.prev*(1-m)

	if ay := math.Abs(y); ay > 0.8 {
		y = math.Copysign(0.8+0.2*math.Tanh((ay-0.8)*5), y)
	}

	y += 0.02*y*y*y + grid*0.3
	y = limitUnit(0.85 * y)

	st.prev = y

	return y
}

func limitSym(x, limit float64) float64 {
	if x > limit {
		return limit
	}

	if x < -limit {
		return -limit
	}

	return x
}

func limitUnit(x float64) float64 {
	return limitSym(x, 1)
}
