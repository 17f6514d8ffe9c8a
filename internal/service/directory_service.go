package service

import (
	"strings"
	"unicode"

	"vozgestora/internal/model"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Municipalities is the static directory, largest first
var Municipalities = []model.Municipality{
	{ID: "joao-pessoa", Name: "João Pessoa", Region: "Litoral", Population: 833932},
	{ID: "campina-grande", Name: "Campina Grande", Region: "Agreste", Population: 411807},
	{ID: "santa-rita", Name: "Santa Rita", Region: "Litoral", Population: 149910},
	{ID: "patos", Name: "Patos", Region: "Sertão", Population: 108733},
	{ID: "bayeux", Name: "Bayeux", Region: "Litoral", Population: 97203},
	{ID: "sousa", Name: "Sousa", Region: "Sertão", Population: 67259},
	{ID: "cabedelo", Name: "Cabedelo", Region: "Litoral", Population: 66519},
	{ID: "cajazeiras", Name: "Cajazeiras", Region: "Sertão", Population: 63239},
	{ID: "guarabira", Name: "Guarabira", Region: "Brejo", Population: 60110},
	{ID: "sape", Name: "Sapé", Region: "Zona da Mata", Population: 52697},
	{ID: "queimadas", Name: "Queimadas", Region: "Agreste", Population: 44634},
	{ID: "mamanguape", Name: "Mamanguape", Region: "Litoral Nordeste", Population: 44583},
	{ID: "pombal", Name: "Pombal", Region: "Sertão", Population: 32443},
	{ID: "monteiro", Name: "Monteiro", Region: "Cariri", Population: 32277},
	{ID: "esperanca", Name: "Esperança", Region: "Agreste", Population: 31215},
	{ID: "catole-do-rocha", Name: "Catolé do Rocha", Region: "Sertão", Population: 30661},
	{ID: "zabele", Name: "Zabelê", Region: "Cariri", Population: 2234},
}

// DirectoryService looks up municipalities
type DirectoryService struct {
	municipalities []model.Municipality
	byID           map[string]model.Municipality
	folded         []string
}

// NewDirectoryService creates a directory over the given municipalities
func NewDirectoryService(municipalities []model.Municipality) *DirectoryService {
	s := &DirectoryService{
		municipalities: municipalities,
		byID:           make(map[string]model.Municipality, len(municipalities)),
		folded:         make([]string, len(municipalities)),
	}
	for i, m := range municipalities {
		s.byID[m.ID] = m
		s.folded[i] = fold(m.Name)
	}
	return s
}

// List returns every municipality
func (s *DirectoryService) List() []model.Municipality {
	return append([]model.Municipality(nil), s.municipalities...)
}

// Get returns one municipality by id
func (s *DirectoryService) Get(id string) (model.Municipality, error) {
	m, ok := s.byID[id]
	if !ok {
		return model.Municipality{}, ErrMunicipalityNotFound
	}
	return m, nil
}

// Search matches term against names ignoring case and accents. An empty term returns all.
func (s *DirectoryService) Search(term string) []model.Municipality {
	q := fold(strings.TrimSpace(term))
	if q == "" {
		return s.List()
	}
	out := []model.Municipality{}
	for i, name := range s.folded {
		if strings.Contains(name, q) {
			out = append(out, s.municipalities[i])
		}
	}
	return out
}

// fold lowercases and strips diacritics: "Sapé" -> "sape"
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
