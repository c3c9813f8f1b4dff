package server

func (s *Server) initRoutes() {
	// CORS preflight, any path
	s.RegisterRouteFunc("OPTIONS /", ChainMiddleware(s.PreflightHandler(), s.APIMiddleware()...))

	// Browser-facing flow
	s.RegisterRouteFunc("GET "+RouteRoot, ChainMiddleware(s.RedirectHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteRedirect, ChainMiddleware(s.RedirectHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteSetClientID, ChainMiddleware(s.SetClientIDHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteCallback, ChainMiddleware(s.CallbackHandler(), s.APIMiddleware()...))

	// Machine-facing polling endpoints
	s.RegisterRouteFunc("GET "+RouteHeartbeat, ChainMiddleware(s.HeartbeatHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteAccessCode, ChainMiddleware(s.AccessCodeHandler(), s.APIMiddleware()...))

	// Everything else is an invalid route
	s.RegisterRouteFunc("/", ChainMiddleware(s.InvalidRouteHandler(), s.APIMiddleware()...))
}
