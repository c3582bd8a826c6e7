package domain

import "fmt"

// Material is the precious metal a product is made of and a rate is quoted for.
type Material string

const (
	MaterialGold   Material = "gold"
	MaterialSilver Material = "silver"
)

// Materials lists every quoted material in display order.
func Materials() []Material {
	return []Material{MaterialGold, MaterialSilver}
}

// ParseMaterial validates a material name coming from storage or a request.
func ParseMaterial(s string) (Material, error) {
	switch Material(s) {
	case MaterialGold, MaterialSilver:
		return Material(s), nil
	default:
		return "", fmt.Errorf("unknown material: %q", s)
	}
}
