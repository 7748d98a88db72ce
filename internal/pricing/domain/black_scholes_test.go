package domain

import (
	"math"
	"testing"
)

const tolerance = 1e-4

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func mustSnapshot(t *testing.T, s, k, tt, r, sigma float64) *Snapshot {
	t.Helper()
	snap, err := NewSnapshot(s, k, tt, r, sigma)
	if err != nil {
		t.Fatalf("NewSnapshot(%v, %v, %v, %v, %v): %v", s, k, tt, r, sigma, err)
	}
	return snap
}

// ATM 基准用例：S=100, K=100, T=1, r=5%, sigma=20%
func TestBlackScholesReferenceATM(t *testing.T) {
	snap := mustSnapshot(t, 100, 100, 1, 0.05, 0.20)

	cases := []struct {
		name string
		got  float64
		want float64
		tol  float64
	}{
		{"call price", snap.CallPrice(), 10.4506, 1e-3},
		{"put price", snap.PutPrice(), 5.5735, 1e-3},
		{"call delta", snap.DeltaCall(), 0.6368, tolerance},
		{"put delta", snap.DeltaPut(), -0.3632, tolerance},
		{"gamma", snap.Gamma(), 0.018762, tolerance},
		{"vega", snap.Vega(), 37.524, 1e-2},
		{"call theta daily", snap.ThetaCall(), -0.017573, 1e-5},
		{"call rho", snap.RhoCall(), 53.232, 1e-2},
	}
	for _, tc := range cases {
		if !approxEqual(tc.got, tc.want, tc.tol) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, tc.got)
		}
	}
}

// OTM 看涨用例：S=50, K=60, T=0.5, r=3%, sigma=30%
func TestBlackScholesReferenceOTM(t *testing.T) {
	snap := mustSnapshot(t, 50, 60, 0.5, 0.03, 0.30)

	call := snap.CallPrice()
	put := snap.PutPrice()

	if !approxEqual(call, 1.4093, 1e-3) {
		t.Errorf("call price: expected 1.4093, got %v", call)
	}
	if !approxEqual(put, 10.5160, 1e-3) {
		t.Errorf("put price: expected 10.5160, got %v", put)
	}

	// 深度虚值看涨应远低于平值
	if call >= put {
		t.Errorf("OTM call %v should be cheaper than ITM put %v", call, put)
	}
}

func TestPutCallParity(t *testing.T) {
	cases := []struct {
		name                string
		s, k, tt, r, sigma float64
	}{
		{"ATM", 100, 100, 1, 0.05, 0.20},
		{"OTM call", 50, 60, 0.5, 0.03, 0.30},
		{"ITM call", 120, 100, 2, 0.10, 0.50},
		{"short dated", 100, 95, 0.01, 0.0, 0.01},
		{"long dated high vol", 300, 250, 10, 0.20, 2.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap := mustSnapshot(t, tc.s, tc.k, tc.tt, tc.r, tc.sigma)
			lhs := snap.CallPrice() - snap.PutPrice()
			rhs := tc.s - tc.k*math.Exp(-tc.r*tc.tt)
			if !approxEqual(lhs, rhs, 1e-8) {
				t.Errorf("parity violated: call-put=%v, S-K*exp(-rT)=%v", lhs, rhs)
			}
		})
	}
}

// T=0 精确到期边界：价格等于内在价值，除 Delta 外的希腊字母全部为 0
func TestExpiryBoundary(t *testing.T) {
	t.Run("ITM call", func(t *testing.T) {
		snap := mustSnapshot(t, 110, 100, 0, 0.05, 0.20)
		if got := snap.CallPrice(); got != 10 {
			t.Errorf("expected call price exactly 10, got %v", got)
		}
		if got := snap.PutPrice(); got != 0 {
			t.Errorf("expected put price exactly 0, got %v", got)
		}
		if got := snap.DeltaCall(); got != 1 {
			t.Errorf("expected call delta 1, got %v", got)
		}
		if got := snap.DeltaPut(); got != 0 {
			t.Errorf("expected put delta 0, got %v", got)
		}
		for name, v := range map[string]float64{
			"gamma":      snap.Gamma(),
			"vega":       snap.Vega(),
			"call theta": snap.ThetaCall(),
			"put theta":  snap.ThetaPut(),
			"call rho":   snap.RhoCall(),
			"put rho":    snap.RhoPut(),
		} {
			if v != 0 {
				t.Errorf("%s at expiry: expected 0, got %v", name, v)
			}
		}
	})

	t.Run("ITM put", func(t *testing.T) {
		snap := mustSnapshot(t, 90, 100, 0, 0.05, 0.20)
		if got := snap.PutPrice(); got != 10 {
			t.Errorf("expected put price exactly 10, got %v", got)
		}
		if got := snap.DeltaPut(); got != -1 {
			t.Errorf("expected put delta -1, got %v", got)
		}
	})
}

// T→0+ 连续性：临近到期的价格收敛到内在价值
func TestExpiryContinuity(t *testing.T) {
	for _, s := range []float64{80, 100, 125} {
		snap := mustSnapshot(t, s, 100, 1e-12, 0.05, 0.20)
		if got := snap.CallPrice(); !approxEqual(got, math.Max(0, s-100), 1e-4) {
			t.Errorf("S=%v: call price %v does not converge to intrinsic %v", s, got, math.Max(0, s-100))
		}
		if got := snap.PutPrice(); !approxEqual(got, math.Max(0, 100-s), 1e-4) {
			t.Errorf("S=%v: put price %v does not converge to intrinsic %v", s, got, math.Max(0, 100-s))
		}
	}
}

func TestDeltaBounds(t *testing.T) {
	for _, s := range []float64{10, 50, 100, 200, 1000} {
		for _, sigma := range []float64{0.05, 0.3, 1.5} {
			snap := mustSnapshot(t, s, 100, 0.75, 0.04, sigma)
			dc := snap.DeltaCall()
			dp := snap.DeltaPut()
			if dc < 0 || dc > 1 {
				t.Errorf("S=%v sigma=%v: call delta %v outside [0,1]", s, sigma, dc)
			}
			if dp < -1 || dp > 0 {
				t.Errorf("S=%v sigma=%v: put delta %v outside [-1,0]", s, sigma, dp)
			}
			if !approxEqual(dc-dp, 1, 1e-12) {
				t.Errorf("S=%v sigma=%v: delta parity broken: %v - %v != 1", s, sigma, dc, dp)
			}
		}
	}
}

// Gamma 与 Vega 对看涨/看跌必须一致
func TestGammaVegaKindIndependent(t *testing.T) {
	snap := mustSnapshot(t, 95, 105, 0.4, 0.02, 0.45)

	callGreeks, err := snap.Greeks(OptionTypeCall)
	if err != nil {
		t.Fatal(err)
	}
	putGreeks, err := snap.Greeks(OptionTypePut)
	if err != nil {
		t.Fatal(err)
	}

	if callGreeks.Gamma != putGreeks.Gamma {
		t.Errorf("gamma differs: call %v, put %v", callGreeks.Gamma, putGreeks.Gamma)
	}
	if callGreeks.Vega != putGreeks.Vega {
		t.Errorf("vega differs: call %v, put %v", callGreeks.Vega, putGreeks.Vega)
	}
}

// 单调性：看涨价格对 S 非减，看跌价格对 S 非增
func TestMonotonicityInUnderlying(t *testing.T) {
	prevCall := math.Inf(-1)
	prevPut := math.Inf(1)
	for s := 20.0; s <= 200; s += 5 {
		snap := mustSnapshot(t, s, 100, 1, 0.05, 0.25)
		call := snap.CallPrice()
		put := snap.PutPrice()
		if call < prevCall {
			t.Errorf("S=%v: call price decreased from %v to %v", s, prevCall, call)
		}
		if put > prevPut {
			t.Errorf("S=%v: put price increased from %v to %v", s, prevPut, put)
		}
		prevCall, prevPut = call, put
	}
}

func TestGreekDispatch(t *testing.T) {
	snap := mustSnapshot(t, 100, 100, 1, 0.05, 0.20)

	cases := []struct {
		name GreekName
		kind OptionType
		want float64
	}{
		{GreekDelta, OptionTypeCall, snap.DeltaCall()},
		{GreekDelta, OptionTypePut, snap.DeltaPut()},
		{GreekGamma, OptionTypeCall, snap.Gamma()},
		{GreekGamma, OptionTypePut, snap.Gamma()},
		{GreekVega, OptionTypeCall, snap.Vega()},
		{GreekTheta, OptionTypeCall, snap.ThetaCall()},
		{GreekTheta, OptionTypePut, snap.ThetaPut()},
		{GreekRho, OptionTypeCall, snap.RhoCall()},
		{GreekRho, OptionTypePut, snap.RhoPut()},
	}
	for _, tc := range cases {
		got, err := snap.Greek(tc.name, tc.kind)
		if err != nil {
			t.Fatalf("Greek(%s, %s): %v", tc.name, tc.kind, err)
		}
		if got != tc.want {
			t.Errorf("Greek(%s, %s): expected %v, got %v", tc.name, tc.kind, tc.want, got)
		}
	}

	if _, err := snap.Greek("SPEED", OptionTypeCall); err == nil {
		t.Error("expected error for unknown greek name")
	}
	if _, err := snap.Greek(GreekDelta, "STRADDLE"); err == nil {
		t.Error("expected error for unknown option type")
	}
	if _, err := snap.Price("STRADDLE"); err == nil {
		t.Error("expected error for unknown option type")
	}
}

// Theta 的日度换算：日度值乘以 365 应还原年化公式值
func TestThetaDailyScaling(t *testing.T) {
	snap := mustSnapshot(t, 100, 100, 1, 0.05, 0.20)

	sqrtT := math.Sqrt(snap.T)
	phi := math.Exp(-snap.D1()*snap.D1()/2) / math.Sqrt(2*math.Pi)
	cdfD2 := 0.5 * (1 + math.Erf(snap.D2()/math.Sqrt2))
	annual := -snap.S*phi*snap.Sigma/(2*sqrtT) - snap.R*snap.K*math.Exp(-snap.R*snap.T)*cdfD2

	if !approxEqual(snap.ThetaCall()*365, annual, 1e-9) {
		t.Errorf("daily theta %v times 365 should equal annual %v", snap.ThetaCall()*365, annual)
	}
}
