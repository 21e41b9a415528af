package provider

// The FME list endpoints answer either with a bare JSON array or with an
// envelope object carrying the records under "objects" (older deployments
// use "data") plus pagination fields. The schema pins that envelope shape
// down without constraining the individual records: a flag missing optional
// fields must degrade per-field, not fail the whole response.
const listResponseSchema = `{
  "anyOf": [
    { "type": "array" },
    {
      "type": "object",
      "properties": {
        "objects": { "type": "array" },
        "data": { "type": "array" },
        "offset": { "type": "integer" },
        "limit": { "type": "integer" },
        "totalCount": { "type": "integer" }
      }
    }
  ]
}`
