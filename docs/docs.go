// Package docs provides the Swagger specification for the procurement API.
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
        "/api/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Authentication"],
                "summary": "Login user",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/api/rfp/create-from-text": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["RFP"],
                "summary": "Create RFP from natural language",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "502": {"description": "Bad Gateway"}
                }
            }
        },
        "/api/rfp": {
            "get": {
                "produces": ["application/json"],
                "tags": ["RFP"],
                "summary": "List RFPs",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/rfp/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["RFP"],
                "summary": "Get RFP",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/rfp/{id}/pdf": {
            "get": {
                "produces": ["application/pdf"],
                "tags": ["RFP"],
                "summary": "Download RFP PDF",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/rfp/{id}/send-to-vendors": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["RFP"],
                "summary": "Send RFP to vendors",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/proposals/by-rfp/{rfpId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Proposals"],
                "summary": "List proposals for an RFP",
                "parameters": [{"type": "string", "name": "rfpId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/proposals/poll-emails": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Proposals"],
                "summary": "Poll inbox for vendor replies",
                "responses": {
                    "200": {"description": "OK"},
                    "502": {"description": "Bad Gateway"}
                }
            }
        },
        "/api/comparison/{rfpId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Comparison"],
                "summary": "Compare proposals",
                "parameters": [{"type": "string", "name": "rfpId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/comparison/{rfpId}/export": {
            "get": {
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["Comparison"],
                "summary": "Export comparison spreadsheet",
                "parameters": [{"type": "string", "name": "rfpId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/vendors": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Vendors"],
                "summary": "List vendors",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Vendors"],
                "summary": "Create vendor",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/api/vendors/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Vendors"],
                "summary": "Get vendor",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Vendors"],
                "summary": "Update vendor",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["Vendors"],
                "summary": "Delete vendor",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Procurement API",
	Description:      "AI-assisted procurement workflow: RFP creation, vendor dispatch, proposal intake and comparison.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
