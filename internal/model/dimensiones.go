package model

// Dimensiones groups the optional classification fields shared by an Entrega
// and a ReglaPrecio. On a rule, a nil field is a wildcard.
type Dimensiones struct {
	NombreCosecha    *string `json:"nombre_cosecha,omitempty"`
	NombreCampo      *string `json:"nombre_campo,omitempty"`
	CecoCampo        *string `json:"ceco_campo,omitempty"`
	EtiquetasCampo   *string `json:"etiquetas_campo,omitempty"`
	Cuartel          *string `json:"cuartel,omitempty"`
	CecoCuartel      *string `json:"ceco_cuartel,omitempty"`
	EtiquetasCuartel *string `json:"etiquetas_cuartel,omitempty"`
	Especie          *string `json:"especie,omitempty"`
	Variedad         *string `json:"variedad,omitempty"`
	Contratista      *string `json:"contratista,omitempty"`
	IDContratista    *int64  `json:"id_contratista,omitempty"`
	Envase           *string `gorm:"index" json:"envase,omitempty"`
	Usuario          *string `json:"usuario,omitempty"`
	IDUsuario        *int64  `json:"id_usuario,omitempty"`
	Cuadrilla        *string `json:"cuadrilla,omitempty"`
}
