// Copyright (c) 2025 Canvas Medical and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command patient serves a minimal Patient facade backed by an
// in-process store.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"

	_ "embed"

	"github.com/canvas-medical/fhirstarter-go/fhir"
	"github.com/canvas-medical/fhirstarter-go/rest"
	"github.com/canvas-medical/fhirstarter-go/search"
	"github.com/canvas-medical/fhirstarter-go/storage"

	"github.com/google/uuid"
)

//go:embed config.yaml
var configBytes []byte

// HumanName is the subset of the FHIR HumanName element this example uses.
type HumanName struct {
	Family string   `json:"family,omitempty"`
	Given  []string `json:"given,omitempty"`
}

// Patient is a minimal Patient resource.
type Patient struct {
	fhir.Base

	Name []HumanName `json:"name,omitempty"`
}

// ResourceType implements the [fhir.Resource] interface.
func (*Patient) ResourceType() string {
	return "Patient"
}

type patientService struct {
	store storage.Store

	mu  sync.Mutex
	ids []string
}

func (s *patientService) create(ctx context.Context, p *Patient) (*Patient, error) {
	p.SetResourceID(uuid.NewString())

	body, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	err = s.store.Put(ctx, p.ResourceType(), p.ResourceID(), body)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.ids = append(s.ids, p.ResourceID())
	s.mu.Unlock()
	return p, nil
}

func (s *patientService) read(ctx context.Context, id string) (*Patient, error) {
	body, err := s.store.Get(ctx, "Patient", id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, rest.NotFoundError("Patient", id)
	}
	if err != nil {
		return nil, err
	}

	var p Patient
	err = json.Unmarshal(body, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *patientService) update(ctx context.Context, id string, p *Patient) (*Patient, error) {
	_, err := s.read(ctx, id)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	err = s.store.Put(ctx, p.ResourceType(), id, body)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *patientService) search(ctx context.Context, params search.Values) (*fhir.Bundle, error) {
	s.mu.Lock()
	ids := slices.Clone(s.ids)
	s.mu.Unlock()

	var matches []fhir.Resource
	for _, id := range ids {
		p, err := s.read(ctx, id)
		if err != nil {
			return nil, err
		}

		family, ok := params.Get("family")
		if ok && !slices.ContainsFunc(p.Name, func(n HumanName) bool { return n.Family == family }) {
			continue
		}
		matches = append(matches, p)
	}
	return fhir.NewSearchSet(matches...)
}

func main() {
	rest.Run(bytes.NewReader(configBytes), func(ctx context.Context, cfg rest.Config) (*rest.Api, error) {
		catalog := search.NewCatalog()
		err := catalog.Define("Patient",
			search.Descriptor{
				Name:        "family",
				Type:        search.String,
				Description: "A portion of the family name of the patient",
				Definition:  "http://hl7.org/fhir/SearchParameter/individual-family",
			},
			search.Descriptor{
				Name:        "given",
				Type:        search.String,
				Multiple:    true,
				Description: "A portion of the given name of the patient",
				Definition:  "http://hl7.org/fhir/SearchParameter/individual-given",
			},
		)
		if err != nil {
			return nil, err
		}

		svc := &patientService{store: storage.NewMemory()}

		return rest.NewApi("Example Patient Facade", "0.1.0",
			rest.WithCatalog(catalog),
			rest.Create[Patient](svc.create),
			rest.Read[Patient](svc.read),
			rest.Search[Patient](svc.search, rest.Params("family", "given")),
			rest.Update[Patient](svc.update),
		), nil
	})
}
