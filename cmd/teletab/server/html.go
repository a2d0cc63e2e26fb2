package server

import "html/template"

// indexPage lists the registry contents. It doubles as the smoke-test
// landing page: the title must stay recognizable.
var indexPage = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Teletab</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
               max-width: 800px; margin: 50px auto; padding: 20px; background: #f5f5f5; }
        .container { background: white; padding: 30px; border-radius: 8px;
                     box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #333; }
        li { margin: 6px 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Teletab</h1>
        <p class="subtitle">Domain objects</p>
        <ul id="object-list">
        {{range .}}
            <li><a href="{{.URL}}">{{.Name}}</a> <span class="object-type">({{.Type}})</span></li>
        {{else}}
            <li class="empty">No objects yet. Create one via POST /api/objects.</li>
        {{end}}
        </ul>
    </div>
</body>
</html>`))

// generatorPage previews a sine wave generator's live signal.
var generatorPage = template.Must(template.New("generator").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{.Name}} - Teletab</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
               max-width: 800px; margin: 50px auto; padding: 20px; background: #f5f5f5; }
        .container { background: white; padding: 30px; border-radius: 8px;
                     box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        #current-value { font-size: 2em; font-family: 'SF Mono', Consolas, monospace; }
    </style>
</head>
<body>
    <div class="container">
        <h1>{{.Name}}</h1>
        <p class="subtitle">Sine Wave Generator</p>
        <div id="current-value">--</div>
        <div id="current-time" class="muted"></div>
    </div>
    <script>
        const es = new EventSource('/api/stream/{{.ID}}');
        es.onmessage = (ev) => {
            const s = JSON.parse(ev.data);
            document.getElementById('current-value').textContent = s.v.toFixed(4);
            document.getElementById('current-time').textContent = s.t;
        };
    </script>
</body>
</html>`))

// tablePage is the telemetry table widget under test.
//
// DOM contract relied on by the e2e suite:
//   - source <select> with aria-label "Telemetry Source", "Add Source" button
//   - "Real-Time" toggle (aria-pressed), "Pause" and "Resume" buttons
//   - #telemetry-table with one Timestamp header plus one header per source
//   - #table-body rows, newest first, each with a td.value-cell
//   - .table-wrapper is the scroll container; when the user has scrolled
//     away from the latest row, its offset only ever grows as rows arrive
var tablePage = template.Must(template.New("table").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{.Name}} - Teletab</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
               max-width: 900px; margin: 40px auto; padding: 20px; background: #f5f5f5; }
        .container { background: white; padding: 30px; border-radius: 8px;
                     box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #333; margin-bottom: 10px; }
        .controls { margin: 20px 0; display: flex; gap: 10px; align-items: center; }
        button { background: #4285f4; color: white; border: none; padding: 10px 18px;
                 border-radius: 4px; cursor: pointer; font-size: 14px; }
        button:hover { background: #3367d6; }
        button:disabled { background: #ccc; cursor: not-allowed; }
        button.active { background: #0b8043; }
        select { padding: 8px; font-size: 14px; }
        .table-wrapper { height: 320px; overflow-y: auto; border: 1px solid #ddd;
                         border-radius: 4px; }
        table { width: 100%; border-collapse: collapse; }
        th { position: sticky; top: 0; background: #fafafa; text-align: left;
             padding: 8px 12px; border-bottom: 2px solid #ddd; }
        td { padding: 6px 12px; border-bottom: 1px solid #eee;
             font-family: 'SF Mono', Consolas, monospace; font-size: 13px; }
    </style>
</head>
<body>
    <div class="container">
        <h1>{{.Name}}</h1>
        <p class="subtitle">Telemetry Table</p>

        <div class="controls">
            <select id="source-select" aria-label="Telemetry Source">
                <option value="">Select a source</option>
            </select>
            <button id="add-source">Add Source</button>
            <button id="realtime-toggle" aria-pressed="false">Real-Time</button>
            <button id="pause-btn">Pause</button>
            <button id="resume-btn" disabled>Resume</button>
        </div>

        <div class="table-wrapper" id="table-wrapper">
            <table id="telemetry-table">
                <thead>
                    <tr id="header-row"><th class="time-header">Timestamp</th></tr>
                </thead>
                <tbody id="table-body"></tbody>
            </table>
        </div>
    </div>

    <script>
        const ROW_LIMIT = 200;
        const sources = new Map();   // id -> column index
        let realtime = false;
        let paused = false;

        const select = document.getElementById('source-select');
        const headerRow = document.getElementById('header-row');
        const body = document.getElementById('table-body');
        const wrapper = document.getElementById('table-wrapper');

        async function loadSources() {
            const res = await fetch('/api/objects?type=' + encodeURIComponent('Sine Wave Generator'));
            const objs = await res.json();
            for (const obj of objs) {
                const opt = document.createElement('option');
                opt.value = obj.id;
                opt.textContent = obj.name;
                select.appendChild(opt);
            }
        }
        loadSources();

        document.getElementById('add-source').addEventListener('click', () => {
            const id = select.value;
            if (!id || sources.has(id)) return;

            const th = document.createElement('th');
            th.className = 'value-header';
            th.textContent = select.options[select.selectedIndex].textContent;
            headerRow.appendChild(th);

            const col = sources.size;
            sources.set(id, col);

            const es = new EventSource('/api/stream/' + id);
            es.onmessage = (ev) => {
                if (!realtime || paused) return;
                appendRow(JSON.parse(ev.data), col);
            };
        });

        function appendRow(sample, col) {
            const tr = document.createElement('tr');
            const time = document.createElement('td');
            time.className = 'time-cell';
            time.textContent = sample.t;
            tr.appendChild(time);

            for (let i = 0; i < sources.size; i++) {
                const td = document.createElement('td');
                td.className = 'value-cell';
                td.textContent = (i === col) ? sample.v.toFixed(4) : '';
                tr.appendChild(td);
            }

            // Newest row first. When the viewport is pinned to the top the
            // latest row is always visible; when the user has scrolled into
            // history, grow the offset by the inserted height so the viewed
            // rows stay put.
            body.insertBefore(tr, body.firstChild);
            while (body.children.length > ROW_LIMIT) {
                body.removeChild(body.lastChild);
            }
            if (wrapper.scrollTop > 0) {
                wrapper.scrollTop += tr.offsetHeight;
            }
        }

        const rtBtn = document.getElementById('realtime-toggle');
        rtBtn.addEventListener('click', () => {
            realtime = !realtime;
            rtBtn.setAttribute('aria-pressed', String(realtime));
            rtBtn.classList.toggle('active', realtime);
        });

        const pauseBtn = document.getElementById('pause-btn');
        const resumeBtn = document.getElementById('resume-btn');
        pauseBtn.addEventListener('click', () => {
            paused = true;
            pauseBtn.disabled = true;
            resumeBtn.disabled = false;
        });
        resumeBtn.addEventListener('click', () => {
            paused = false;
            pauseBtn.disabled = false;
            resumeBtn.disabled = true;
        });
    </script>
</body>
</html>`))
