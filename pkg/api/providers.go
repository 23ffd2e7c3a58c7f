package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/mailbuilder/pkg/document"
	"github.com/dmitrymomot/mailbuilder/pkg/editor"
	"github.com/dmitrymomot/mailbuilder/pkg/provider"
)

// defaultProvider is the path name that resolves to the registry default.
const defaultProvider = "default"

type providersResponse struct {
	Providers []string `json:"providers"`
	Default   string   `json:"default,omitempty"`
}

func (s *Server) listProviders(w http.ResponseWriter, r *http.Request) {
	s.ok(w, providersResponse{Providers: s.providers.Names(), Default: s.providers.DefaultName()})
}

func (s *Server) gateway(r *http.Request) (provider.Gateway, error) {
	name := chi.URLParam(r, "provider")
	if name == defaultProvider {
		return s.providers.Default()
	}
	return s.providers.Get(name)
}

// callProvider runs fn off the request goroutine and waits at most the
// provider timeout for it.
func callProvider[T any](s *Server, r *http.Request, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(r.Context(), s.providerTimeout)
	defer cancel()
	return provider.Go(ctx, fn).AwaitWithTimeout(s.providerTimeout)
}

// resolveTemplate returns the template with id, or the current one when id
// is empty.
func (s *Server) resolveTemplate(id string) (document.Template, error) {
	if id == "" {
		tpl, ok := s.store.Current()
		if !ok {
			return document.Template{}, editor.ErrNoCurrent
		}
		return tpl, nil
	}
	return s.store.Template(id)
}

type sendRequest struct {
	TemplateID string `json:"templateId,omitempty"`
	provider.SendParams
}

func (s *Server) sendTemplate(w http.ResponseWriter, r *http.Request) {
	g, err := s.gateway(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req sendRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	tpl, err := s.resolveTemplate(req.TemplateID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	req.SendParams = req.SendParams.Normalize()
	if err := req.SendParams.Validate(); err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := callProvider(s, r, func(ctx context.Context) (provider.SendResult, error) {
		return g.Send(ctx, tpl, req.SendParams)
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, res)
}

func (s *Server) listRemoteTemplates(w http.ResponseWriter, r *http.Request) {
	g, err := s.gateway(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	list, err := callProvider(s, r, g.ListTemplates)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if list == nil {
		list = []provider.RemoteTemplate{}
	}
	s.ok(w, list)
}

type saveRemoteRequest struct {
	TemplateID string `json:"templateId,omitempty"`
}

func (s *Server) saveRemoteTemplate(w http.ResponseWriter, r *http.Request) {
	g, err := s.gateway(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req saveRemoteRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	tpl, err := s.resolveTemplate(req.TemplateID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	remote, err := callProvider(s, r, func(ctx context.Context) (provider.RemoteTemplate, error) {
		return g.SaveTemplate(ctx, tpl)
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.created(w, remote)
}

func (s *Server) deleteRemoteTemplate(w http.ResponseWriter, r *http.Request) {
	g, err := s.gateway(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	id := chi.URLParam(r, "remoteID")
	_, err = callProvider(s, r, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, g.DeleteTemplate(ctx, id)
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, Applied{Applied: true})
}
