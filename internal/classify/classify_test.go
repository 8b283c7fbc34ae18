package classify

import "testing"

func TestClassifyDisjoint(t *testing.T) {
	types := []string{
		"Weapon+Missile", "Weapon+Bomb", "Projectile+Shell",
		"Ground+AntiAircraft", "Ground+Heavy+Armor+Vehicle+Tank",
		"Ground+Vehicle", "Ground+Static+Building", "Ground+Light+Human+Infantry",
		"Air+FixedWing", "Air+Rotorcraft",
		"Misc+Decoy+Flare", "",
	}
	for _, typ := range types {
		cat := Classify(typ)
		count := 0
		for _, c := range []Category{Weapon, Ground, Air} {
			if cat == c {
				count++
			}
		}
		if count > 1 {
			t.Errorf("Classify(%q) set more than one exclusive category", typ)
		}
	}
}

func TestClassifyWeaponShortCircuits(t *testing.T) {
	// The weapon set is checked first; a weapon type must come back as
	// Weapon, never Ground, Air, or Other.
	if got := Classify("Weapon+Missile"); got != Weapon {
		t.Fatalf("Classify(Weapon+Missile) = %v, want Weapon", got)
	}
}

func TestClassifyOther(t *testing.T) {
	if got := Classify("Navaid+Static"); got != Other {
		t.Fatalf("Classify(Navaid+Static) = %v, want Other", got)
	}
}

func TestCanBeParent(t *testing.T) {
	cases := map[string]bool{
		"Air+FixedWing":                       true,
		"Ground+Vehicle":                      true,
		"Weapon+Missile":                      false,
		"Projectile+Shell":                    false,
		"Misc+Decoy+Flare":                    false,
		"Ground+Light+Human+Air+Parachutist":  false,
	}
	for typ, want := range cases {
		if got := CanBeParent(typ); got != want {
			t.Errorf("CanBeParent(%q) = %v, want %v", typ, got, want)
		}
	}
}

func TestShouldHaveParent(t *testing.T) {
	cases := map[string]bool{
		"Weapon+Missile":      true,
		"Projectile+Shell":    true,
		"Misc+Decoy":          true,
		"Ground+Static+Container": true,
		"Air+FixedWing":       false,
		"Ground+Vehicle":      false,
	}
	for typ, want := range cases {
		if got := ShouldHaveParent(typ); got != want {
			t.Errorf("ShouldHaveParent(%q) = %v, want %v", typ, got, want)
		}
	}
}
