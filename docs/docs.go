// Package docs holds the OpenAPI document served at /docs. It is maintained
// by hand in the layout swag init emits; keep it in sync with the handler
// annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/metrics/visitors": {
            "get": {
                "description": "Buckets visits of the requested period. last_24_hours always returns 24 hourly buckets (oldest first); other periods only return buckets that saw visits.",
                "produces": ["application/json"],
                "tags": ["Metrics"],
                "summary": "Visitor counts per time bucket",
                "parameters": [
                    {
                        "enum": ["last_24_hours", "last_week", "last_month", "last_year", "all_time"],
                        "type": "string",
                        "description": "Period",
                        "name": "period",
                        "in": "query",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/metrics.VisitorMetricsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/metrics.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/metrics.ErrorResponse"}}
                }
            }
        },
        "/metrics/visitors/breakdown": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Metrics"],
                "summary": "Visits grouped by a visitor attribute",
                "parameters": [
                    {
                        "enum": ["last_24_hours", "last_week", "last_month", "last_year", "all_time"],
                        "type": "string",
                        "description": "Period",
                        "name": "period",
                        "in": "query",
                        "required": true
                    },
                    {
                        "enum": ["browser", "os", "city", "country"],
                        "type": "string",
                        "description": "Dimension",
                        "name": "dimension",
                        "in": "query",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Max groups (default 10, max 100)",
                        "name": "limit",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/metrics.BreakdownResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/metrics.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/metrics.ErrorResponse"}}
                }
            }
        },
        "/visits": {
            "post": {
                "description": "Stores a single page view. Missing ip_address, user_agent and referer are taken from the request.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Visits"],
                "summary": "Record a visit",
                "parameters": [
                    {
                        "description": "Visit payload",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/visitors.RecordVisitRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Duplicate visit", "schema": {"$ref": "#/definitions/visitors.RecordVisitResponse"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/visitors.RecordVisitResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/visitors.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/visitors.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/visitors.ErrorResponse"}}
                }
            }
        },
        "/visits/bulk": {
            "post": {
                "description": "Validates every visit, then stores them one by one. Visits of banned visitors are skipped and counted.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Visits"],
                "summary": "Bulk record visits",
                "parameters": [
                    {
                        "description": "Bulk visit payload",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/visitors.BulkRecordVisitsRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/visitors.BulkRecordVisitsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/visitors.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/visitors.ErrorResponse"}}
                }
            }
        },
        "/visitors": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Visitors"],
                "summary": "List visitors",
                "parameters": [
                    {"type": "boolean", "description": "Only banned visitors", "name": "banned", "in": "query"},
                    {"type": "integer", "description": "Page size (default 50, max 500)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/visitors.ListVisitorsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/visitors.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/visitors.ErrorResponse"}}
                }
            }
        },
        "/visitors/{ip}/ban": {
            "post": {
                "description": "Further visits from the IP are rejected with 403.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Visitors"],
                "summary": "Ban a visitor",
                "parameters": [
                    {"type": "string", "description": "Visitor IP address", "name": "ip", "in": "path", "required": true},
                    {
                        "description": "Ban reason",
                        "name": "request",
                        "in": "body",
                        "schema": {"$ref": "#/definitions/visitors.BanVisitorRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/visitors.VisitorResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/visitors.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/visitors.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/visitors.ErrorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["Visitors"],
                "summary": "Lift a visitor ban",
                "parameters": [
                    {"type": "string", "description": "Visitor IP address", "name": "ip", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/visitors.VisitorResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/visitors.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/visitors.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/visitors.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "metrics.VisitorMetricsResponse": {
            "type": "object",
            "properties": {
                "period": {"type": "string", "example": "last_24_hours"},
                "from": {"type": "integer", "example": 1741271400},
                "to": {"type": "integer", "example": 1741357800},
                "total": {"type": "integer", "example": 42},
                "buckets": {
                    "description": "Bucket key -> visit count, in chart order.",
                    "type": "object",
                    "additionalProperties": {"type": "integer"}
                }
            }
        },
        "metrics.BreakdownGroupResponse": {
            "type": "object",
            "properties": {
                "key": {"type": "string"},
                "visits": {"type": "integer"},
                "unique_visitors": {"type": "integer"}
            }
        },
        "metrics.BreakdownResponse": {
            "type": "object",
            "properties": {
                "period": {"type": "string"},
                "dimension": {"type": "string"},
                "from": {"type": "integer"},
                "to": {"type": "integer"},
                "groups": {"type": "array", "items": {"$ref": "#/definitions/metrics.BreakdownGroupResponse"}}
            }
        },
        "metrics.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "invalid_query"},
                "message": {"type": "string"}
            }
        },
        "visitors.RecordVisitRequest": {
            "description": "Visit recording DTO",
            "type": "object",
            "properties": {
                "ip_address": {"type": "string", "example": "203.0.113.7"},
                "path": {"type": "string", "example": "/pricing"},
                "referer": {"type": "string"},
                "user_agent": {"type": "string"},
                "browser": {"type": "string", "example": "Chrome"},
                "os": {"type": "string", "example": "Linux"},
                "city": {"type": "string", "example": "Berlin"},
                "country": {"type": "string", "example": "DE"},
                "timestamp": {"type": "integer"}
            }
        },
        "visitors.RecordVisitResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "visitors.BulkRecordVisitsRequest": {
            "type": "object",
            "properties": {
                "visits": {"type": "array", "items": {"$ref": "#/definitions/visitors.RecordVisitRequest"}}
            }
        },
        "visitors.BulkRecordVisitsResponse": {
            "type": "object",
            "properties": {
                "created": {"type": "integer"},
                "duplicates": {"type": "integer"},
                "banned": {"type": "integer"}
            }
        },
        "visitors.BanVisitorRequest": {
            "type": "object",
            "properties": {
                "reason": {"type": "string", "example": "scraping"}
            }
        },
        "visitors.VisitorResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "ip_address": {"type": "string"},
                "browser": {"type": "string"},
                "os": {"type": "string"},
                "city": {"type": "string"},
                "country": {"type": "string"},
                "first_visit_at": {"type": "integer"},
                "last_visit_at": {"type": "integer"},
                "visit_count": {"type": "integer"},
                "banned": {"type": "boolean"},
                "ban_reason": {"type": "string"},
                "banned_at": {"type": "integer"}
            }
        },
        "visitors.ListVisitorsResponse": {
            "type": "object",
            "properties": {
                "visitors": {"type": "array", "items": {"$ref": "#/definitions/visitors.VisitorResponse"}},
                "count": {"type": "integer"}
            }
        },
        "visitors.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "invalid_visit"},
                "message": {"type": "string", "example": "Visit payload is invalid"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Visitor Metrics Service API",
	Description:      "Visit tracking, visitor bans and time-bucketed visitor metrics.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
