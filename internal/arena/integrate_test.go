package arena

import (
	"math"
	"testing"
)

var testCenter = Point{X: 350, Y: 350}

func TestIntegrate_RestRemoval(t *testing.T) {
	tops := []Top{restingTop(testCenter.X, testCenter.Y)}
	tops[0].VX = 0.05
	tops[0].AngularVelocity = 0.005

	integrate(tops, 0, testCenter, 300, constRand(0.5))

	if !tops[0].Removed() {
		t.Fatal("slow, barely spinning top should be removed")
	}
	if tops[0].X != testCenter.X {
		t.Errorf("removed top should not move, got x=%v", tops[0].X)
	}
}

func TestIntegrate_ExitRemoval(t *testing.T) {
	tops := []Top{restingTop(testCenter.X+311, testCenter.Y)}
	tops[0].VX = 5

	integrate(tops, 0, testCenter, 300, constRand(0.5))

	if !tops[0].Removed() {
		t.Fatalf("top past the rim should be removed, x=%v", tops[0].X)
	}
}

func TestIntegrate_FlashDecayClamp(t *testing.T) {
	tops := []Top{restingTop(testCenter.X, testCenter.Y)}
	tops[0].AngularVelocity = 0.3
	tops[0].CollisionFlash = 0.1

	integrate(tops, 0, testCenter, 300, constRand(0.5))

	if tops[0].CollisionFlash != 0 {
		t.Errorf("flash should clamp at 0, got %v", tops[0].CollisionFlash)
	}
}

func TestIntegrate_SpiralFollowsSpin(t *testing.T) {
	tests := []struct {
		name string
		spin float64
		sign float64
	}{
		{"positive spin curls toward -y", 0.3, -1},
		{"negative spin curls toward +y", -0.3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tops := []Top{restingTop(testCenter.X+100, testCenter.Y)}
			tops[0].AngularVelocity = tt.spin

			integrate(tops, 0, testCenter, 300, constRand(0.5))

			if tops[0].VY*tt.sign <= 0 {
				t.Errorf("vy = %v, want sign %v", tops[0].VY, tt.sign)
			}
			if tops[0].VX >= 0 {
				t.Errorf("gravity should pull toward center, vx = %v", tops[0].VX)
			}
		})
	}
}

func TestIntegrate_SoftContainment(t *testing.T) {
	tops := []Top{restingTop(testCenter.X+295, testCenter.Y)}
	tops[0].VX = 2
	tops[0].AngularVelocity = 0.3

	free := []Top{restingTop(testCenter.X+295, testCenter.Y)}
	free[0].VX = 2
	free[0].AngularVelocity = 0.3
	integrate(free, 0, testCenter, 10000, constRand(0.5))

	integrate(tops, 0, testCenter, 300, constRand(0.5))

	if tops[0].Removed() {
		t.Fatal("top inside the soft zone should not be removed")
	}
	if d := tops[0].DistanceTo(testCenter.X, testCenter.Y); d > 288+1e-9 {
		t.Errorf("top not clamped inside the rim: distance %v", d)
	}
	if tops[0].VX >= free[0].VX {
		t.Errorf("outward velocity not damped: %v vs unconstrained %v", tops[0].VX, free[0].VX)
	}
	if tops[0].VX <= 0 {
		t.Errorf("containment should blend, not bounce instantly: vx = %v", tops[0].VX)
	}
}

func TestIntegrate_PeerPassOnlyLaterIndices(t *testing.T) {
	tops := []Top{restingTop(testCenter.X, testCenter.Y), restingTop(testCenter.X+10, testCenter.Y)}
	tops[0].AngularVelocity = 0.3
	tops[1].AngularVelocity = 0.3
	ax, ay := tops[0].X, tops[0].Y

	if n := integrate(tops, 1, testCenter, 300, constRand(0.5)); n != 0 {
		t.Errorf("last index has no later peers, got %d collisions", n)
	}
	if tops[0].X != ax || tops[0].Y != ay || tops[0].CollisionFlash != 0 {
		t.Error("earlier-indexed top was touched by a later peer pass")
	}

	if n := integrate(tops, 0, testCenter, 300, constRand(0.5)); n != 1 {
		t.Errorf("expected one collision from index 0, got %d", n)
	}
	if tops[0].CollisionFlash != 1 || tops[1].CollisionFlash != 1 {
		t.Error("collision should flash both tops")
	}
}

func TestIntegrate_AngleAccumulates(t *testing.T) {
	tops := []Top{restingTop(testCenter.X, testCenter.Y)}
	tops[0].AngularVelocity = 0.5
	tops[0].Angle = 2 * math.Pi

	for i := 0; i < 20; i++ {
		integrate(tops, 0, testCenter, 300, constRand(0.5))
	}

	if tops[0].Angle <= 2*math.Pi+5 {
		t.Errorf("angle should accumulate without wrapping, got %v", tops[0].Angle)
	}
}
