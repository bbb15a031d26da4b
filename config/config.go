// Package config loads the solver's four options from an sra.conf
// TOML file, the same way honnef.co/go/tools's own config package
// loads staticcheck.conf: walk up from the directory it's given looking
// for a file at each level, then merge what's found with the
// built-in defaults, nearest directory winning field-by-field.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"sra.dev/sra/sra"
)

type config struct {
	cfg  sra.Config
	meta toml.MetaData
}

// Merge overlays ocfg's explicitly-set fields onto cfg, leaving any
// field ocfg's file never mentioned untouched. The teacher's own
// Merge resolves same-named lists across enabled_checks/
// disabled_checks; this module's options are all scalars, so merging
// is a direct field overwrite guarded by IsDefined instead of a list
// union.
func (cfg config) Merge(ocfg config) config {
	if ocfg.meta.IsDefined("sra", "use_sym_bounds") {
		cfg.cfg.UseSymBounds = ocfg.cfg.UseSymBounds
	}
	if ocfg.meta.IsDefined("sra", "max_phi_eval_size") {
		cfg.cfg.MaxPhiEvalSize = ocfg.cfg.MaxPhiEvalSize
	}
	if ocfg.meta.IsDefined("sra", "max_expr_size") {
		cfg.cfg.MaxExprSize = ocfg.cfg.MaxExprSize
	}
	if ocfg.meta.IsDefined("sra", "use_numeric_bounds") {
		cfg.cfg.UseNumericBounds = ocfg.cfg.UseNumericBounds
	}
	return cfg
}

const configName = "sra.conf"

// fileConfig is the TOML document shape: a single [sra] table,
// unlike the teacher's config file which has one table per checker.
type fileConfig struct {
	SRA sra.Config `toml:"sra"`
}

func parseConfigs(dir string) ([]config, error) {
	var out []config

	for dir != "" {
		f, err := os.Open(filepath.Join(dir, configName))
		if os.IsNotExist(err) {
			ndir := filepath.Dir(dir)
			if ndir == dir {
				break
			}
			dir = ndir
			continue
		}
		if err != nil {
			return nil, err
		}
		var fc fileConfig
		meta, err := toml.DecodeReader(f, &fc)
		f.Close()
		if err != nil {
			return nil, err
		}
		out = append(out, config{cfg: fc.SRA, meta: meta})
		ndir := filepath.Dir(dir)
		if ndir == dir {
			break
		}
		dir = ndir
	}
	out = append(out, config{
		cfg:  sra.DefaultConfig(),
		meta: toml.MetaData{}, // meta of the base config should never be accessed
	})
	if len(out) < 2 {
		return out, nil
	}
	for i := 0; i < len(out)/2; i++ {
		out[i], out[len(out)-1-i] = out[len(out)-1-i], out[i]
	}
	return out, nil
}

func mergeConfigs(confs []config) sra.Config {
	if len(confs) == 0 {
		panic("trying to merge zero configs")
	}
	if len(confs) == 1 {
		return confs[0].cfg
	}
	conf := confs[0]
	for _, oconf := range confs[1:] {
		conf = conf.Merge(oconf)
	}
	return conf.cfg
}

// Load walks up from dir looking for sra.conf files, merging whatever
// it finds with DefaultConfig, the nearest directory's settings
// winning field-by-field over its ancestors'.
func Load(dir string) (sra.Config, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return sra.Config{}, err
	}
	confs, err := parseConfigs(dir)
	if err != nil {
		return sra.Config{}, err
	}
	return mergeConfigs(confs), nil
}
