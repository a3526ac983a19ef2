package seed

import (
	"encoding/xml"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/carmarket/catalog-api/internal/domain/entity"
)

// Estructura del XML paramétrico de municipios publicado por la DIAN (código DANE).
type parametros struct {
	Tabla struct {
		Valores []valor `xml:"valor"`
	} `xml:"tabla"`
}

type valor struct {
	Cod    string `xml:"cod,attr"`
	Nombre string `xml:"nombre,attr"`
	Otro   struct {
		Codigo string `xml:"codigo,attr"`
		Valor  string `xml:"valor,attr"`
	} `xml:"otro"`
}

// ParseMunicipios convierte Municipios.xml en el árbol país → departamentos (state) → municipios (city).
// El archivo oficial viene en ISO-8859-1. Departamentos ordenados por código DANE, municipios por nombre.
func ParseMunicipios(r io.Reader, country string) (Node, error) {
	var p parametros
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		switch strings.ToUpper(charset) {
		case "ISO-8859-1", "ISO8859-1", "LATIN1":
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		case "WINDOWS-1252":
			return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
		}
		return input, nil
	}
	if err := dec.Decode(&p); err != nil {
		return Node{}, fmt.Errorf("decodificar XML: %w", err)
	}

	deptNames := make(map[string]string)
	cities := make(map[string][]string)
	for _, v := range p.Tabla.Valores {
		code := strings.TrimSpace(v.Otro.Codigo)
		dept := strings.TrimSpace(v.Otro.Valor)
		name := strings.TrimSpace(v.Nombre)
		if v.Cod == "" || name == "" || code == "" || dept == "" {
			continue
		}
		deptNames[code] = dept
		cities[code] = append(cities[code], name)
	}

	codes := make([]string, 0, len(deptNames))
	for c := range deptNames {
		codes = append(codes, c)
	}
	sort.Strings(codes)

	root := Node{Name: country, Type: entity.TypeLocation, SubType: entity.SubTypeCountry}
	for i, c := range codes {
		order := i
		state := Node{Name: deptNames[c], SubType: entity.SubTypeState, Order: &order}
		names := cities[c]
		sort.Strings(names)
		for _, n := range slices.Compact(names) {
			state.Children = append(state.Children, Node{Name: n, SubType: entity.SubTypeCity})
		}
		root.Children = append(root.Children, state)
	}
	return root, nil
}
