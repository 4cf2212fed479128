package catalog

import "github.com/SAMUELWEB11/ProyectoITPshop/internal/domain"

// fallbackProducts is the built-in souvenir catalog, served only when the ERP
// is unreachable and no cached list exists.
var fallbackProducts = []domain.Product{
	{
		Code:        "CAMISETA-001",
		Name:        "Camiseta Clásica ITP",
		Rate:        250,
		Description: "Camiseta 100% algodón con el logo del instituto en el pecho.",
		Image:       "https://raw.githubusercontent.com/SAMUELWEB11/ProyectoITPshop/main/camiseta-itp.jpeg",
		ItemGroup:   "Ropa",
	},
	{
		Code:        "TAZA-001",
		Name:        "Taza Universitaria",
		Rate:        120,
		Description: "Taza cerámica de 350ml con impresión del mapa de Puebla y el engranaje tecnológico.",
		Image:       "https://raw.githubusercontent.com/SAMUELWEB11/ProyectoITPshop/main/taza2.jpeg",
		ItemGroup:   "Accesorios",
	},
	{
		Code:        "CUADERNO-001",
		Name:        "Cuaderno de Notas",
		Rate:        80,
		Description: "Cuaderno espiral de 100 hojas con portada del instituto.",
		Image:       "https://raw.githubusercontent.com/SAMUELWEB11/ProyectoITPshop/main/cuaderno.jpeg",
		ItemGroup:   "Escolar",
	},
	{
		Code:        "SUDADERA-001",
		Name:        "Sudadera con Capucha",
		Rate:        450,
		Description: "Sudadera cómoda con el texto 'Instituto Tecnológico de Puebla' en la espalda.",
		Image:       "https://raw.githubusercontent.com/SAMUELWEB11/ProyectoITPshop/main/sudaderaconcapucha.jpeg",
		ItemGroup:   "Ropa",
	},
	{
		Code:        "PIN-001",
		Name:        "Pin de Graduación",
		Rate:        30,
		Description: "Pin esmaltado con el logo completo.",
		Image:       "https://raw.githubusercontent.com/SAMUELWEB11/ProyectoITPshop/main/pines.jpeg",
		ItemGroup:   "Accesorios",
	},
}

// FallbackProducts returns a copy so callers cannot mutate the built-ins.
func FallbackProducts() []domain.Product {
	out := make([]domain.Product, len(fallbackProducts))
	copy(out, fallbackProducts)
	return out
}
