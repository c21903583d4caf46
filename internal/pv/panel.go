package pv

import "pv_simulator/internal/model"

// PanelProperties is the immutable constant record for one panel technology.
// It is resolved once at pipeline entry and shared read-only by all groups.
type PanelProperties struct {
	Type model.PanelType

	EffNominal float64 // nominal module efficiency [-]
	NOCTC      float64 // nominal operating cell temperature [degree C]
	TempCoeff  float64 // maximum-power temperature coefficient [1/degree C]

	// Air-mass spectral correction coefficients.
	A0, A1, A2, A3, A4 float64

	GlazingThicknessM float64
}

var panelCatalog = map[model.PanelType]PanelProperties{
	model.PanelMonocrystalline: {
		Type:       model.PanelMonocrystalline,
		EffNominal: 0.16,
		NOCTC:      43.5,
		TempCoeff:  0.0035,
		A0:         0.935823,
		A1:         0.054289,
		A2:         -0.008677,
		A3:         0.000527,
		A4:         -0.000011,

		GlazingThicknessM: 0.002,
	},
	model.PanelPolycrystalline: {
		Type:       model.PanelPolycrystalline,
		EffNominal: 0.15,
		NOCTC:      43.9,
		TempCoeff:  0.0044,
		A0:         0.918093,
		A1:         0.086257,
		A2:         -0.024459,
		A3:         0.002816,
		A4:         -0.000126,

		GlazingThicknessM: 0.002,
	},
	model.PanelAmorphous: {
		Type:       model.PanelAmorphous,
		EffNominal: 0.08,
		NOCTC:      38.1,
		TempCoeff:  0.0026,
		A0:         1.10044085,
		A1:         -0.06142323,
		A2:         -0.00442732,
		A3:         0.000631504,
		A4:         -0.000019184,

		GlazingThicknessM: 0.0002,
	},
}

// PropertiesFor returns the constant record for the given panel technology.
func PropertiesFor(t model.PanelType) (PanelProperties, error) {
	props, ok := panelCatalog[t]
	if !ok {
		return PanelProperties{}, &UnknownPanelTypeError{Type: string(t)}
	}
	return props, nil
}
