package core

import glog "github.com/goliatone/go-logger/glog"

var (
	_ AccountEventHandler = accountMutator{}
	_ AccountEvent        = EmailForwardingChanged{}
	_ AccountEvent        = AccountDeleted{}
	_ AccountEvent        = AppleAccountDeleted{}
	_ RawConfigLoader     = EnvLoader{}
	_ RawConfigLoader     = YAMLFileLoader{}
	_ RawConfigLoader     = ChainLoader{}
	_ ConfigProvider      = (*CfgxConfigProvider)(nil)
	_ OptionsResolver     = GoOptionsResolver{}

	_ Logger         = glog.Nop()
	_ LoggerProvider = glog.ProviderFromLogger(glog.Nop())
)
