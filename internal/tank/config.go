package tank

// Default numerical margins. The Courant margin bounds the advective mass
// exchanged per node and step; the diffusion margin bounds the conductive
// and loss exchange. Both must stay below 1 for the explicit scheme.
const (
	DefaultCourantMax   = 0.9
	DefaultDiffusionMax = 0.5
	DefaultMinDt        = 1e-6 // s
)

// TopNode selects the top node for a port index regardless of node count.
const TopNode = -1

// Params are the raw user-level tank parameters passed to NewConfig.
type Params struct {
	Nodes  int     // number of vertical nodes, >= 2
	Height float64 // m
	Volume float64 // m^3, total fluid volume
	Rho    float64 // kg/m^3
	Cp     float64 // J/(kg K)
	UALoss float64 // W/K total wall loss to ambient, 0 disables
	KCond  float64 // W/(m K) effective axial conduction, 0 disables

	// Port node indices. The hot port is the charging inlet (and discharge
	// outlet); the cold port is the discharge inlet (return/makeup water)
	// and charging outlet. TopNode selects the top node. When both are
	// zero the defaults apply: hot port at the top, cold port at the bottom.
	HotPort  int
	ColdPort int

	CourantMax   float64 // advective stability margin in (0,1], 0 = default
	DiffusionMax float64 // diffusive stability margin in (0,1], 0 = default
	MinDt        float64 // s, floor for the derived step, 0 = default
}

// Config is a validated, immutable tank description. Derived geometry is
// computed once at construction; the value is shared read-only by solver
// runs and is safe for concurrent use.
type Config struct {
	Params

	Dz       float64 // node height, m
	Area     float64 // cross-sectional area, m^2
	NodeVol  float64 // node volume, m^3
	NodeMass float64 // node fluid mass, kg
	HeatCap  float64 // node thermal mass, J/K
	UANode   float64 // per-node share of the wall loss, W/K
	GCond    float64 // inter-node conductance k*A/dz, W/K
}

// NewConfig validates p and returns the immutable configuration.
// Invalid input yields a *ConfigError naming the offending parameter.
func NewConfig(p Params) (*Config, error) {
	if p.Nodes < 2 {
		return nil, &ConfigError{"nodes", float64(p.Nodes), "at least 2 nodes required"}
	}
	if p.Height <= 0 {
		return nil, &ConfigError{"height", p.Height, "must be > 0"}
	}
	if p.Volume <= 0 {
		return nil, &ConfigError{"volume", p.Volume, "must be > 0"}
	}
	if p.Rho <= 0 {
		return nil, &ConfigError{"rho", p.Rho, "must be > 0"}
	}
	if p.Cp <= 0 {
		return nil, &ConfigError{"cp", p.Cp, "must be > 0"}
	}
	if p.UALoss < 0 {
		return nil, &ConfigError{"ua_loss", p.UALoss, "must be >= 0"}
	}
	if p.KCond < 0 {
		return nil, &ConfigError{"k_cond", p.KCond, "must be >= 0"}
	}

	if p.HotPort == 0 && p.ColdPort == 0 {
		p.HotPort = TopNode
	}
	if p.HotPort == TopNode {
		p.HotPort = p.Nodes - 1
	}
	if p.ColdPort == TopNode {
		p.ColdPort = p.Nodes - 1
	}
	if p.HotPort < 0 || p.HotPort >= p.Nodes {
		return nil, &ConfigError{"hot_port", float64(p.HotPort), "node index out of range"}
	}
	if p.ColdPort < 0 || p.ColdPort >= p.Nodes {
		return nil, &ConfigError{"cold_port", float64(p.ColdPort), "node index out of range"}
	}
	if p.HotPort == p.ColdPort {
		return nil, &ConfigError{"cold_port", float64(p.ColdPort), "ports must be distinct nodes"}
	}

	if p.CourantMax == 0 {
		p.CourantMax = DefaultCourantMax
	}
	if p.CourantMax <= 0 || p.CourantMax > 1 {
		return nil, &ConfigError{"courant_max", p.CourantMax, "must be in (0,1]"}
	}
	if p.DiffusionMax == 0 {
		p.DiffusionMax = DefaultDiffusionMax
	}
	if p.DiffusionMax <= 0 || p.DiffusionMax > 1 {
		return nil, &ConfigError{"diffusion_max", p.DiffusionMax, "must be in (0,1]"}
	}
	if p.MinDt == 0 {
		p.MinDt = DefaultMinDt
	}
	if p.MinDt < 0 {
		return nil, &ConfigError{"min_dt", p.MinDt, "must be > 0"}
	}

	c := &Config{Params: p}
	c.Dz = p.Height / float64(p.Nodes)
	c.Area = p.Volume / p.Height
	c.NodeVol = c.Area * c.Dz
	c.NodeMass = p.Rho * c.NodeVol
	c.HeatCap = c.NodeMass * p.Cp
	if p.UALoss > 0 {
		c.UANode = p.UALoss / float64(p.Nodes)
	}
	if p.KCond > 0 {
		c.GCond = p.KCond * c.Area / c.Dz
	}
	return c, nil
}
