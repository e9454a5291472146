package kvstore

// Mux routes NamespaceSession to a session store and every other namespace to a durable store
type Mux struct {
	Durable Store
	Session Store
}

func (m *Mux) route(namespace string) Store {
	if namespace == NamespaceSession && m.Session != nil {
		return m.Session
	}
	return m.Durable
}

func (m *Mux) Get(namespace, key string) (string, error) {
	return m.route(namespace).Get(namespace, key)
}

func (m *Mux) Set(namespace, key, value string) error {
	return m.route(namespace).Set(namespace, key, value)
}

func (m *Mux) Delete(namespace, key string) error {
	return m.route(namespace).Delete(namespace, key)
}
