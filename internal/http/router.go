package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Router 使用标准库 http.ServeMux（避免引入第三方路由依赖）
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

// HandleHandler 支持 http.Handler 接口（用于 pprof 等）
func (r *Router) HandleHandler(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterAuthRoutes 认证路由
func (r *Router) RegisterAuthRoutes(h *AuthHandler) {
	r.Handle("/console/api/v1/auth/login", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Login(w, req)
	})

	r.Handle("/console/api/v1/auth/register", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Register(w, req)
	})

	r.Handle("/console/api/v1/auth/logout", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Logout(w, req)
	})
}

// RegisterConsoleRoutes 管理台只读屏幕 + 告警操作路由
func (r *Router) RegisterConsoleRoutes(h *ConsoleHandler) {
	r.Handle("/console/api/v1/dashboard", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Dashboard(w, req)
	})

	r.Handle("/console/api/v1/fridges", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Fridges(w, req)
	})

	// fridges/{deviceID}/{tab}  tab: status | inventory | sessions | alerts
	r.Handle("/console/api/v1/fridges/", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		rest := strings.TrimPrefix(req.URL.Path, "/console/api/v1/fridges/")
		deviceID, tab, ok := splitDetailPath(rest)
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.FridgeDetail(w, req, deviceID, tab)
	})

	r.Handle("/console/api/v1/alerts", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Alerts(w, req)
	})

	// alerts/{alertID}/{action}  action: acknowledge | resolve
	r.Handle("/console/api/v1/alerts/", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		rest := strings.TrimPrefix(req.URL.Path, "/console/api/v1/alerts/")
		alertID, action, ok := splitDetailPath(rest)
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.AlertTransition(w, req, alertID, action)
	})

	r.Handle("/console/api/v1/transactions", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Transactions(w, req)
	})
}

// RegisterAdminRoutes 管理员与设备分配路由（SystemAdmin）
func (r *Router) RegisterAdminRoutes(h *AdminHandler) {
	r.Handle("/console/api/v1/admins", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.List(w, req)
		case http.MethodPost:
			h.Save(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	r.Handle("/console/api/v1/admins/", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodDelete {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		adminID := strings.TrimPrefix(req.URL.Path, "/console/api/v1/admins/")
		if adminID == "" || strings.Contains(adminID, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.Delete(w, req, adminID)
	})
}

// RegisterExportRoutes 屏幕数据导出路由
func (r *Router) RegisterExportRoutes(h *ExportHandler) {
	r.Handle("/console/api/v1/export/", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		screen := strings.TrimPrefix(req.URL.Path, "/console/api/v1/export/")
		if screen == "" || strings.Contains(screen, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.Export(w, req, screen)
	})
}

// RegisterKioskRoutes kiosk 购物流程路由
func (r *Router) RegisterKioskRoutes(h *KioskHandler) {
	r.Handle("/kiosk/api/v1/sessions", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Start(w, req)
	})

	// sessions/{id}
	// sessions/{id}/{action}
	// sessions/{id}/items/{itemID}/decrease
	r.Handle("/kiosk/api/v1/sessions/", func(w http.ResponseWriter, req *http.Request) {
		rest := strings.TrimPrefix(req.URL.Path, "/kiosk/api/v1/sessions/")
		parts := strings.Split(rest, "/")

		switch {
		case len(parts) == 1 && parts[0] != "":
			if req.Method != http.MethodGet {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			h.Get(w, req, parts[0])
		case len(parts) == 2 && parts[0] != "" && parts[1] != "":
			if req.Method != http.MethodPost {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			h.Transition(w, req, parts[0], parts[1])
		case len(parts) == 4 && parts[1] == "items" && parts[3] == "decrease" &&
			parts[0] != "" && parts[2] != "":
			if req.Method != http.MethodPost {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			h.DecreaseItem(w, req, parts[0], parts[2])
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}
