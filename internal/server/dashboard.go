package server

import "net/http"

// dashboardHTML mirrors the panel in a browser: the live screenshot plus
// the published snapshot, refreshed every few seconds.
const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>CKB Panel</title>
<style>
  *, *::before, *::after { box-sizing: border-box; margin: 0; padding: 0; }
  :root {
    --bg: #101020; --surface: #21264a; --border: #2a2d52;
    --text: #ffffff; --text-dim: #8c8a8c; --orange: #ffa200;
    --green: #2ffa31; --red: #ff0000;
  }
  body {
    font-family: -apple-system, 'SF Pro Display', 'Segoe UI', system-ui, sans-serif;
    background: var(--bg); color: var(--text);
    min-height: 100vh; padding: 32px 24px;
  }
  .container { max-width: 960px; margin: 0 auto; display: flex; gap: 32px; flex-wrap: wrap; }
  h1 { font-size: 22px; font-weight: 800; color: var(--orange); margin-bottom: 16px; width: 100%; }
  .panel { width: 480px; height: 480px; border: 1px solid var(--border); border-radius: 12px; overflow: hidden; background: #000; }
  .panel img { width: 480px; height: 480px; display: block; image-rendering: pixelated; }
  .card { flex: 1; min-width: 280px; background: var(--surface); border-radius: 12px; padding: 20px; }
  .status-pill { display: inline-block; font-size: 12px; padding: 4px 10px; border-radius: 999px; background: var(--green); color: #000; margin-bottom: 12px; }
  .status-pill.offline { background: var(--red); color: #fff; }
  pre { font-family: 'SF Mono', Menlo, monospace; font-size: 12px; color: var(--text-dim); white-space: pre-wrap; word-break: break-all; }
</style>
</head>
<body>
<div class="container">
  <h1>CKB Panel</h1>
  <div class="panel"><img id="frame" alt="panel" src="/screenshot"></div>
  <div class="card">
    <span id="statusPill" class="status-pill">Online</span>
    <pre id="snapshot">loading...</pre>
  </div>
</div>
<script>
const $ = id => document.getElementById(id);

async function poll() {
  try {
    const res = await fetch('/status');
    if (!res.ok) throw new Error(res.status);
    const status = await res.json();
    $('snapshot').textContent = JSON.stringify(status, null, 2);
    $('statusPill').className = 'status-pill';
    $('statusPill').textContent = status.device + ' online';
  } catch (e) {
    $('statusPill').className = 'status-pill offline';
    $('statusPill').textContent = 'Offline';
  }
  $('frame').src = '/screenshot?t=' + Date.now();
}

poll();
setInterval(poll, 3000);
</script>
</body>
</html>`

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(dashboardHTML))
}
