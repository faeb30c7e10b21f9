package server

// clientScript is the browser-side listener. It connects to the reload
// socket, reloads the page on full-reload messages, and re-dispatches
// custom events (such as turbo-refresh) through a minimal hot-update
// surface plus a DOM event for plain listeners.
const clientScript = `(() => {
  const proto = location.protocol === "https:" ? "wss" : "ws";
  const handlers = new Map();

  if (!window.__turboReloadHot) {
    window.__turboReloadHot = {
      on(event, fn) {
        const list = handlers.get(event) || [];
        list.push(fn);
        handlers.set(event, list);
      },
    };
  }

  function connect() {
    const source = new WebSocket(proto + "://" + location.host + "` + SocketPath + `");

    source.addEventListener("message", (e) => {
      const msg = JSON.parse(e.data);
      if (msg.type === "full-reload") {
        location.reload();
        return;
      }
      if (msg.type === "custom") {
        for (const fn of handlers.get(msg.event) || []) fn();
        document.dispatchEvent(new CustomEvent(msg.event));
      }
    });

    source.addEventListener("close", () => {
      setTimeout(connect, 1000);
    });
  }

  connect();
})();
`
