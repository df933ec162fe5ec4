// Copyright (c) 2025 Canvas Medical and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package rest provides a framework for serving FHIR resource interactions over HTTP.
//
// # Overview
//
// The rest package lets an application register one handler per
// (resource type, interaction) pair and synthesizes everything else:
//   - Routes for create, read, search and update interactions
//   - Search parameter signatures derived from a [search.Catalog]
//   - Content negotiation between JSON and XML, with optional indentation
//   - OperationOutcome responses for every failure
//   - Capability statement at GET /metadata
//   - OpenAPI 3.0 document at GET /openapi.json
//
// # Quick Start
//
//	catalog := search.NewCatalog()
//	catalog.Define("Patient",
//	    search.Descriptor{Name: "family", Type: search.String, Description: "A portion of the family name"},
//	)
//
//	api := rest.NewApi("Example FHIR Server", "0.1.0",
//	    rest.WithCatalog(catalog),
//	    rest.Create[Patient](createPatient),
//	    rest.Read[Patient](readPatient),
//	    rest.Search[Patient](searchPatients, rest.Params("family")),
//	    rest.Update[Patient](updatePatient),
//	)
//	http.ListenAndServe(":8080", api)
//
// Registration happens strictly before the first request is served.
// Invalid registrations, such as a duplicate (resource type, interaction)
// pair or a search parameter missing from the catalog, abort startup.
package rest
