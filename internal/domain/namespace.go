package domain

import (
	"slices"
	"strings"
)

// Namespace is the fixed top-level grouping prefixing every translation key.
type Namespace string

const (
	NamespaceCommon        Namespace = "common"
	NamespaceAuth          Namespace = "auth"
	NamespaceProducts      Namespace = "products"
	NamespaceAdmin         Namespace = "admin"
	NamespaceNavigation    Namespace = "navigation"
	NamespaceForms         Namespace = "forms"
	NamespaceErrors        Namespace = "errors"
	NamespaceMessages      Namespace = "messages"
	NamespaceNotifications Namespace = "notifications"
	NamespaceGallery       Namespace = "gallery"
	NamespaceNews          Namespace = "news"
	NamespaceReviews       Namespace = "reviews"
	NamespaceOrders        Namespace = "orders"
	NamespaceDashboard     Namespace = "dashboard"
	NamespaceBuyer         Namespace = "buyer"
	NamespaceFarmer        Namespace = "farmer"
	NamespaceHome          Namespace = "home"
)

var namespaces = []Namespace{
	NamespaceCommon,
	NamespaceAuth,
	NamespaceProducts,
	NamespaceAdmin,
	NamespaceNavigation,
	NamespaceForms,
	NamespaceErrors,
	NamespaceMessages,
	NamespaceNotifications,
	NamespaceGallery,
	NamespaceNews,
	NamespaceReviews,
	NamespaceOrders,
	NamespaceDashboard,
	NamespaceBuyer,
	NamespaceFarmer,
	NamespaceHome,
}

// Namespaces returns a copy of the accepted namespaces.
func Namespaces() []Namespace {
	return slices.Clone(namespaces)
}

// NamespaceValues returns the namespaces as strings, for ozzo In rules.
func NamespaceValues() []any {
	out := make([]any, len(namespaces))
	for i, ns := range namespaces {
		out[i] = string(ns)
	}
	return out
}

func (n Namespace) Valid() bool {
	return slices.Contains(namespaces, n)
}

// Prefix is the leading segment every key in the namespace shares.
func (n Namespace) Prefix() string {
	return string(n) + "."
}

// NamespaceFromKey returns the first dot segment of key.
func NamespaceFromKey(key string) Namespace {
	key = strings.TrimSpace(key)
	if idx := strings.IndexByte(key, '.'); idx > 0 {
		return Namespace(key[:idx])
	}
	return ""
}
