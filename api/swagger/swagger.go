package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "BuscaCursos API",
        "description": "RESTful API for course-section data scraped from the BuscaCursos UC catalog",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Courses", "description": "Course section lookups"},
        {"name": "Health", "description": "Liveness and cache maintenance"}
    ],
    "paths": {
        "/courses/search": {
            "get": {
                "tags": ["Courses"],
                "summary": "Search course sections by code and term",
                "parameters": [
                    {"name": "code", "in": "query", "type": "string", "required": true, "description": "Course code, e.g. ICS2123"},
                    {"name": "term", "in": "query", "type": "string", "required": true, "description": "Term, format YYYY-S"},
                    {"name": "professor", "in": "query", "type": "string", "description": "Filter by professor (substring)"},
                    {"name": "campus", "in": "query", "type": "string", "description": "Filter by campus (substring)"}
                ],
                "responses": {
                    "200": {"description": "Sections found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid parameters"},
                    "502": {"description": "Catalog blocked the request or changed its layout"},
                    "503": {"description": "Catalog unreachable"}
                }
            }
        },
        "/courses/info/{code}": {
            "get": {
                "tags": ["Courses"],
                "summary": "Course sections by code for the default term",
                "parameters": [
                    {"name": "code", "in": "path", "type": "string", "required": true},
                    {"name": "term", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Sections found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/batch": {
            "post": {
                "tags": ["Courses"],
                "summary": "Look up many courses in one request",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BatchRequest"}}
                ],
                "responses": {
                    "200": {"description": "Per-code outcomes", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid batch size or parameters"}
                }
            }
        },
        "/courses/vacancies": {
            "get": {
                "tags": ["Courses"],
                "summary": "Reserved-vacancy distribution for one NRC",
                "parameters": [
                    {"name": "nrc", "in": "query", "type": "string", "required": true},
                    {"name": "term", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Vacancy buckets", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/semesters": {
            "get": {
                "tags": ["Courses"],
                "summary": "Terms currently offered by the catalog",
                "responses": {
                    "200": {"description": "Available terms", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/cache/clear": {
            "post": {
                "tags": ["Health"],
                "summary": "Flush the result cache",
                "responses": {
                    "200": {"description": "Entries evicted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "BatchRequest": {
            "type": "object",
            "required": ["codes", "term"],
            "properties": {
                "codes": {"type": "array", "items": {"type": "string"}, "minItems": 1, "maxItems": 20},
                "term": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"type": "object"},
                "message": {"type": "string"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
