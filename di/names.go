package di

// Names lists the keys under which bootstrap registers its own services.
type Names struct {
	Config   string
	Logger   string
	Registry string
}

// Pkg contains the well-known keys registered by bootstrap.
var Pkg = Names{
	Config:   "config",
	Logger:   "logger",
	Registry: "registry",
}
