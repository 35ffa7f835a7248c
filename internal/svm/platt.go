package svm

import "math"

const (
	plattMaxIter = 100
	plattMinStep = 1e-10
	plattSigma   = 1e-12
	plattEps     = 1e-5
)

// sigmoidTrain fits P(y=1|f) = 1/(1+exp(A*f+B)) to decision values by
// Newton's method with backtracking, using regularized targets.
func sigmoidTrain(dec, sign []float64) (float64, float64) {
	var prior1, prior0 float64
	for _, s := range sign {
		if s > 0 {
			prior1++
		} else {
			prior0++
		}
	}

	hi := (prior1 + 1) / (prior1 + 2)
	lo := 1 / (prior0 + 2)
	t := make([]float64, len(dec))
	for i, s := range sign {
		if s > 0 {
			t[i] = hi
		} else {
			t[i] = lo
		}
	}

	a, b := 0.0, math.Log((prior0+1)/(prior1+1))
	fval := sigmoidLoss(dec, t, a, b)

	for iter := 0; iter < plattMaxIter; iter++ {
		h11, h22, h21 := plattSigma, plattSigma, 0.0
		g1, g2 := 0.0, 0.0
		for i, f := range dec {
			fApB := f*a + b
			var p, q float64
			if fApB >= 0 {
				e := math.Exp(-fApB)
				p = e / (1 + e)
				q = 1 / (1 + e)
			} else {
				e := math.Exp(fApB)
				p = 1 / (1 + e)
				q = e / (1 + e)
			}
			d2 := p * q
			h11 += f * f * d2
			h22 += d2
			h21 += f * d2
			d1 := t[i] - p
			g1 += f * d1
			g2 += d1
		}
		if math.Abs(g1) < plattEps && math.Abs(g2) < plattEps {
			break
		}

		det := h11*h22 - h21*h21
		dA := -(h22*g1 - h21*g2) / det
		dB := -(-h21*g1 + h11*g2) / det
		gd := g1*dA + g2*dB

		step := 1.0
		for step >= plattMinStep {
			na, nb := a+step*dA, b+step*dB
			nf := sigmoidLoss(dec, t, na, nb)
			if nf < fval+0.0001*step*gd {
				a, b, fval = na, nb, nf
				break
			}
			step /= 2
		}
		if step < plattMinStep {
			break
		}
	}
	return a, b
}

func sigmoidLoss(dec, t []float64, a, b float64) float64 {
	var f float64
	for i, d := range dec {
		fApB := d*a + b
		if fApB >= 0 {
			f += t[i]*fApB + math.Log1p(math.Exp(-fApB))
		} else {
			f += (t[i]-1)*fApB + math.Log1p(math.Exp(fApB))
		}
	}
	return f
}

func sigmoidPredict(dec, a, b float64) float64 {
	fApB := dec*a + b
	if fApB >= 0 {
		e := math.Exp(-fApB)
		return e / (1 + e)
	}
	return 1 / (1 + math.Exp(fApB))
}
