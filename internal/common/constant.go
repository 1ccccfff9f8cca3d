package common

// AppName prefixes exported archive file names and metric namespaces.
const AppName = "cargodesk"

// AuthorizationHeaderName carries the bearer access token on HTTP requests.
const AuthorizationHeaderName = "Authorization"

// CorrelationIDHeaderName is echoed back on every response.
const CorrelationIDHeaderName = "X-Correlation-ID"
