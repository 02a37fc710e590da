package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "OpenLearn Hub API",
        "description": "Catalog of free educational resources with search and contribution intake.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Resources", "description": "Catalog browsing, search and export"},
        {"name": "Submissions", "description": "Resource contributions"},
        {"name": "System", "description": "Health and counters"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["System"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ready": {
            "get": {
                "tags": ["System"],
                "summary": "Readiness check",
                "responses": {"200": {"description": "Catalog loaded"}}
            }
        },
        "/api/v1/resources": {
            "get": {
                "tags": ["Resources"],
                "summary": "List resources",
                "description": "Category, level and type narrow the catalog; search then matches title, description or any tag, case-insensitively.",
                "parameters": [
                    {"$ref": "#/parameters/category"},
                    {"$ref": "#/parameters/level"},
                    {"$ref": "#/parameters/type"},
                    {"$ref": "#/parameters/search"}
                ],
                "responses": {
                    "200": {"description": "Matching resources; meta.count and meta.summary describe the result", "schema": {"$ref": "#/definitions/ResourceList"}},
                    "400": {"description": "Unknown filter value", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/resources/featured": {
            "get": {
                "tags": ["Resources"],
                "summary": "Featured resources",
                "responses": {"200": {"description": "First resources in catalog order", "schema": {"$ref": "#/definitions/ResourceList"}}}
            }
        },
        "/api/v1/resources/export": {
            "get": {
                "tags": ["Resources"],
                "summary": "Export a filtered list",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"},
                    {"$ref": "#/parameters/category"},
                    {"$ref": "#/parameters/level"},
                    {"$ref": "#/parameters/type"},
                    {"$ref": "#/parameters/search"}
                ],
                "responses": {
                    "200": {"description": "Rendered document", "schema": {"type": "file"}},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/resources/{id}": {
            "get": {
                "tags": ["Resources"],
                "summary": "Get a resource",
                "parameters": [{"$ref": "#/parameters/id"}],
                "responses": {
                    "200": {"description": "Resource", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/resources/{id}/related": {
            "get": {
                "tags": ["Resources"],
                "summary": "Resources in the same category",
                "parameters": [
                    {"$ref": "#/parameters/id"},
                    {"name": "limit", "in": "query", "type": "integer", "minimum": 1, "maximum": 50, "default": 3}
                ],
                "responses": {
                    "200": {"description": "Related resources", "schema": {"$ref": "#/definitions/ResourceList"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/resources/{id}/reports": {
            "post": {
                "tags": ["Resources"],
                "summary": "Report a broken or inappropriate resource",
                "consumes": ["application/json"],
                "parameters": [
                    {"$ref": "#/parameters/id"},
                    {"name": "payload", "in": "body", "required": false, "schema": {"$ref": "#/definitions/ReportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Report acknowledged", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/taxonomy": {
            "get": {
                "tags": ["Resources"],
                "summary": "Category, level and type lookup tables with counts",
                "responses": {"200": {"description": "Taxonomy", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/stats": {
            "get": {
                "tags": ["System"],
                "summary": "Service counters",
                "responses": {"200": {"description": "Snapshot", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/submissions/attachment-policy": {
            "get": {
                "tags": ["Submissions"],
                "summary": "Attachment size ceiling and accepted extensions",
                "responses": {"200": {"description": "Policy", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/submissions/attachments/check": {
            "post": {
                "tags": ["Submissions"],
                "summary": "Check a file before submitting",
                "consumes": ["multipart/form-data"],
                "parameters": [{"name": "file", "in": "formData", "type": "file", "required": true}],
                "responses": {
                    "200": {"description": "Check result; valid=false carries the issue", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "413": {"description": "Body far above the ceiling", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/submissions": {
            "post": {
                "tags": ["Submissions"],
                "summary": "Submit a resource for review",
                "description": "JSON or multipart/form-data with an optional file part. Either url or file is required.",
                "consumes": ["application/json", "multipart/form-data"],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmissionDraft"}}],
                "responses": {
                    "202": {"description": "Queued for review", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "MISSING_SOURCE or VALIDATION_ERROR with error.fields", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "parameters": {
        "id": {"name": "id", "in": "path", "type": "string", "required": true},
        "category": {"name": "category", "in": "query", "type": "string", "enum": ["all", "technology", "exams", "health", "skills", "community"]},
        "level": {"name": "level", "in": "query", "type": "string", "enum": ["all", "beginner", "intermediate", "advanced"]},
        "type": {"name": "type", "in": "query", "type": "string", "enum": ["all", "video", "pdf", "website", "article", "course"]},
        "search": {"name": "search", "in": "query", "type": "string", "maxLength": 200}
    },
    "definitions": {
        "Resource": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "category": {"type": "string"},
                "level": {"type": "string"},
                "type": {"type": "string"},
                "url": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}},
                "contributor": {"type": "string"},
                "createdAt": {"type": "string"},
                "views": {"type": "integer"}
            }
        },
        "ResourceList": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/Resource"}},
                "meta": {"type": "object"}
            }
        },
        "ReportRequest": {
            "type": "object",
            "properties": {"reason": {"type": "string", "maxLength": 500}}
        },
        "SubmissionDraft": {
            "type": "object",
            "properties": {
                "title": {"type": "string", "minLength": 5, "maxLength": 100},
                "description": {"type": "string", "minLength": 20, "maxLength": 500},
                "url": {"type": "string"},
                "category": {"type": "string"},
                "level": {"type": "string"},
                "type": {"type": "string"},
                "contributor": {"type": "string", "maxLength": 50}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
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
